package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"staffhub.io/staffhub/config"
	"staffhub.io/staffhub/core"
	"staffhub.io/staffhub/staff"
)

func main() {
	configPath := flag.String("config", os.Getenv("STAFFHUB_CONFIG"), "path to the YAML configuration file")
	fixturePath := flag.String("fixture", "", "optional employee fixture (.yaml, .yml or .csv)")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		log.Fatalf("[ERROR] config: %v", err)
	}

	dm, err := core.New(core.Options{
		Driver:         cfg.Database.Driver,
		DSN:            cfg.Database.DSN,
		MaxConnections: cfg.Database.MaxConnections,
		LogLevel:       core.ParseLogLevel(cfg.Database.LogLevel),
	})
	if err != nil {
		log.Fatalf("[ERROR] database: %v", err)
	}
	defer dm.Close()

	if err := dm.Migrate(ctx); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	log.Printf("[INFO] tables migrated")

	svc := staff.NewService(core.NewEmployeeRepository(dm), core.NewFaceRepository(dm), nil)
	seeded, err := svc.SeedAdmin(ctx)
	if err != nil {
		log.Fatalf("[ERROR] seed admin: %v", err)
	}
	if seeded {
		log.Printf("[INFO] created default admin %q", staff.DefaultAdminID)
	}

	if *fixturePath == "" {
		return
	}
	inputs, err := readFixture(*fixturePath)
	if err != nil {
		log.Fatalf("[ERROR] fixture: %v", err)
	}

	created, skipped := 0, 0
	for _, in := range inputs {
		if _, err := svc.Create(ctx, in); err != nil {
			if errors.Is(err, staff.ErrDuplicateID) {
				skipped++
				continue
			}
			log.Fatalf("[ERROR] employee %s: %v", in.ID, err)
		}
		created++
	}
	log.Printf("[INFO] fixture imported: %d created, %d already present", created, skipped)
}
