package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"staffhub.io/staffhub/config"
	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/security"
)

func main() {
	configPath := flag.String("config", os.Getenv("STAFFHUB_CONFIG"), "path to the YAML configuration file")
	id := flag.String("id", "admin", "employee id")
	role := flag.String("role", model.RoleAdmin, "admin or employee")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load(context.Background(), *configPath)
	if err != nil {
		log.Fatalf("[ERROR] config: %v", err)
	}

	token, err := security.CreateIdentityToken(security.Identity{ID: *id, UniqueName: *id, Role: *role}, cfg.Secret(), *ttl)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	fmt.Println(token)
}
