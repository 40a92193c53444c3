// Command seedadmin creates or resets the administrator account. It is meant
// to be run once against a fresh database, or again whenever the admin
// password needs to be rotated.
package main

import (
	"context"
	"flag"
	"strings"

	"deuda_tracker/internal/config"
	"deuda_tracker/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		logrus.Fatal("-password is required")
	}
	name := strings.ToLower(strings.TrimSpace(*username))
	if len(name) < 3 {
		logrus.Fatal("-username must be at least 3 characters")
	}

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found or error loading, relying on environment variables")
	}

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		logrus.Fatalf("Failed to load DB config: %v", err)
	}
	pool, err := config.ConnectDB(dbCfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := config.AutoMigrate(pool); err != nil {
		logrus.Fatalf("Failed to auto-migrate database: %v", err)
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		logrus.Fatalf("Failed to hash password: %v", err)
	}

	ctx := context.Background()
	var id int
	err = pool.QueryRow(ctx, `SELECT id FROM users WHERE lower(username) = lower($1)`, name).Scan(&id)
	switch {
	case err == nil:
		_, err = pool.Exec(ctx,
			`UPDATE users SET password_hash = $1, role = 'ADMIN', is_active = TRUE WHERE id = $2`,
			hash, id)
		if err != nil {
			logrus.Fatalf("Failed to update admin user: %v", err)
		}
		logrus.Infof("Updated existing user %q (id=%d) as admin", name, id)
	case err == pgx.ErrNoRows:
		err = pool.QueryRow(ctx,
			`INSERT INTO users (username, password_hash, role, is_active) VALUES ($1, $2, 'ADMIN', TRUE) RETURNING id`,
			name, hash).Scan(&id)
		if err != nil {
			logrus.Fatalf("Failed to create admin user: %v", err)
		}
		logrus.Infof("Created admin user %q (id=%d)", name, id)
	default:
		logrus.Fatalf("Failed to look up user: %v", err)
	}
}
