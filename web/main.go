package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staffhub.io/staffhub/config"
)

func main() {
	path := flag.String("config", os.Getenv("STAFFHUB_CONFIG"), "path to the YAML configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, *path)
	if err != nil {
		log.Fatalf("[ERROR] config: %v", err)
	}
	log.Printf("[INFO] using %s database, timezone %s", cfg.Database.Driver, cfg.TimeZone)

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatalf("[ERROR] startup: %v", err)
	}
	defer a.close(context.Background())

	go a.attendance.RunJanitor(ctx, cfg.JanitorInterval, func(err error) {
		if err := a.slack.Error("Code janitor failed: " + err.Error()); err != nil {
			log.Printf("[WARN] slack: %v", err)
		}
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(cfg, a),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Printf("[INFO] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
}
