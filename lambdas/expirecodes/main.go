package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"staffhub.io/staffhub/attendance"
	"staffhub.io/staffhub/config"
	"staffhub.io/staffhub/core"
	"staffhub.io/staffhub/utils"
)

type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Result struct {
	Purged int64     `json:"purged"`
	RanAt  time.Time `json:"ranAt"`
}

func purge(ctx context.Context, p Purger, event events.CloudWatchEvent) (*Result, error) {
	log.Printf("[INFO] expiring attendance codes (event %s, %s)", event.ID, event.DetailType)
	n, err := p.PurgeExpired(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to purge codes: %w", err)
	}
	return &Result{Purged: n, RanAt: time.Now().UTC()}, nil
}

func run(ctx context.Context, event events.CloudWatchEvent) (*Result, error) {
	cfg, err := config.Load(ctx, os.Getenv("STAFFHUB_CONFIG"))
	if err != nil {
		return nil, err
	}
	dm, err := core.New(core.Options{
		Driver:         cfg.Database.Driver,
		DSN:            cfg.Database.DSN,
		MaxConnections: 2,
		LogLevel:       core.LogLevelError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dm.Close()

	svc := attendance.NewService(core.NewCodeRepository(dm), core.NewAttendanceRepository(dm), core.NewEmployeeRepository(dm), utils.LoadLocation(cfg.TimeZone))
	return purge(ctx, svc, event)
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(run)
		return
	}
	result, err := run(context.Background(), events.CloudWatchEvent{ID: "local", DetailType: "Manual Run"})
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Printf("[INFO] purged %d codes", result.Purged)
}
