// Seeder for the role catalog and the bootstrap admin account. Safe to run
// repeatedly: existing rows are left untouched.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/suseche/inventory-api/internal/config"
	"github.com/suseche/inventory-api/internal/database"
	"github.com/suseche/inventory-api/internal/repository"
	"github.com/suseche/inventory-api/internal/utils"
)

var defaultRoles = []struct {
	Name        string
	Description string
}{
	{"admin", "Full access to user administration, catalog and inventory"},
	{"seller", "Catalog and inventory management"},
	{"client", "Read access to the catalog"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(database.MigrateURL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	roles := repository.NewRoleRepo(db)
	users := repository.NewUserRepo(db)

	for _, r := range defaultRoles {
		if _, err := roles.GetByName(ctx, r.Name); err == nil {
			log.Printf("role %q already present", r.Name)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("role %q: %v", r.Name, err)
		}
		if _, err := roles.Create(ctx, r.Name, r.Description); err != nil {
			log.Fatalf("create role %q: %v", r.Name, err)
		}
		log.Printf("role %q created", r.Name)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		log.Printf("admin %s already present", email)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("lookup admin: %v", err)
	}

	admin, err := roles.GetByName(ctx, "admin")
	if err != nil {
		log.Fatalf("admin role: %v", err)
	}

	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	id, err := users.Create(ctx, "Administrator", email, hash, admin.ID)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %s created (id=%d)", email, id)
}
