package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"staffhub.io/staffhub/attendance"
	"staffhub.io/staffhub/config"
	"staffhub.io/staffhub/core"
	"staffhub.io/staffhub/face"
	"staffhub.io/staffhub/infrastructure/communication"
	"staffhub.io/staffhub/infrastructure/filesystem"
	"staffhub.io/staffhub/kvstore"
	"staffhub.io/staffhub/leave"
	"staffhub.io/staffhub/payroll"
	"staffhub.io/staffhub/report"
	"staffhub.io/staffhub/staff"
	"staffhub.io/staffhub/utils"
	"staffhub.io/staffhub/workboard"
)

type app struct {
	staff      *staff.Service
	attendance *attendance.Service
	recognizer *face.Recognizer
	leaves     *leave.Service
	work       *workboard.Service
	payroll    *payroll.Service
	reports    *report.Service
	slack      *communication.Slack

	closers []func(ctx context.Context) error
}

func newMailer(ctx context.Context, m config.Mail) (communication.Mailer, error) {
	switch strings.ToLower(m.Provider) {
	case "ses":
		mailer, err := communication.NewSESMailer(ctx)
		if err != nil {
			return nil, err
		}
		return mailer, nil
	case "smtp":
		return communication.NewSMTPMailer(m.SMTPHost, m.SMTPPort, m.SMTPUser, m.SMTPPassword, m.SMTPInsecure), nil
	}
	return nil, nil
}

func newStore(ctx context.Context, m config.Mongo) (kvstore.Store, func(context.Context) error, error) {
	if m.URI == "" {
		log.Printf("[WARN] MONGODB_URI not set, tasks and projects are kept in memory")
		return kvstore.NewMemoryStore(), nil, nil
	}
	store, err := kvstore.ConnectMongo(ctx, m.URI, m.Database, m.Collection)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	dm, err := core.New(core.Options{
		Driver:         cfg.Database.Driver,
		DSN:            cfg.Database.DSN,
		MaxConnections: cfg.Database.MaxConnections,
		LogLevel:       core.ParseLogLevel(cfg.Database.LogLevel),
	})
	if err != nil {
		return nil, err
	}
	a := &app{closers: []func(context.Context) error{func(context.Context) error { return dm.Close() }}}

	if err := dm.Migrate(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}

	store, closeStore, err := newStore(ctx, cfg.Mongo)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	var images staff.ImageStore
	if cfg.AWS.FaceBucket != "" {
		s3, err := filesystem.NewS3Store(ctx, cfg.AWS.FaceBucket)
		if err != nil {
			a.close(ctx)
			return nil, err
		}
		images = s3
	}

	mailer, err := newMailer(ctx, cfg.Mail)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	a.slack = communication.NewSlack(cfg.Slack.Token, communication.SlackOption{
		InfoChannelID:  cfg.Slack.InfoChannel,
		ErrorChannelID: cfg.Slack.ErrorChannel,
	})

	loc := utils.LoadLocation(cfg.TimeZone)
	employees := core.NewEmployeeRepository(dm)
	faces := core.NewFaceRepository(dm)

	a.staff = staff.NewService(employees, faces, images)
	seeded, err := a.staff.SeedAdmin(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	if seeded {
		log.Printf("[INFO] created default admin %q", staff.DefaultAdminID)
	}

	a.attendance = attendance.NewService(core.NewCodeRepository(dm), core.NewAttendanceRepository(dm), employees, loc)
	a.recognizer = face.NewRecognizer(faces)
	a.leaves = leave.NewService(core.NewLeaveRepository(dm), employees, leave.NewNotifications(a.slack, mailer, cfg.Mail.From))
	a.work = workboard.NewService(store, loc)
	a.payroll = payroll.NewService(employees)
	a.reports = report.NewService(employees, a.attendance, a.leaves, a.work)
	return a, nil
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Printf("[WARN] close: %v", err)
		}
	}
}
