package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN string
}

// LoadDBConfig loads database configuration from environment variables
func LoadDBConfig() (*DBConfig, error) {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	return &DBConfig{DSN: dsn}, nil
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(cfg *DBConfig) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	// Retry connecting to the database a few times
	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(context.Background(), cfg.DSN)
		if err == nil {
			err = pool.Ping(context.Background())
			if err == nil {
				logrus.Info("Successfully connected to PostgreSQL")
				return pool, nil
			}
		}
		logrus.Warnf("Failed to connect to database (attempt %d/%d): %v. Retrying in %v...",
			i+1, maxRetries, err, retryInterval)
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// AutoMigrate creates tables if they don't exist
func AutoMigrate(db *pgxpool.Pool) error {
	sql := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('USER', 'ADMIN')) DEFAULT 'USER',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	-- Usernames are unique case-insensitively.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (lower(username));

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);

	CREATE TABLE IF NOT EXISTS accounts (
		id SERIAL PRIMARY KEY,
		owner_user_id INT NOT NULL REFERENCES users(id),
		viewer_user_id INT REFERENCES users(id),
		title TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('PAYABLE', 'RECEIVABLE')),
		currency TEXT NOT NULL,
		initial_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		weekly_target DOUBLE PRECISION,
		pay_to TEXT,
		notes TEXT,
		deleted_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		CHECK (viewer_user_id IS NULL OR viewer_user_id <> owner_user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_owner ON accounts(owner_user_id);
	CREATE INDEX IF NOT EXISTS idx_accounts_viewer ON accounts(viewer_user_id);

	CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		account_id INT NOT NULL REFERENCES accounts(id),
		created_by_user_id INT NOT NULL REFERENCES users(id),
		movement TEXT NOT NULL CHECK (movement IN ('ABONO', 'CARGO')),
		date TEXT NOT NULL, -- calendar date YYYY-MM-DD; lexicographic order is chronological
		amount DOUBLE PRECISION NOT NULL CHECK (amount > 0),
		currency TEXT NOT NULL,
		pay_to TEXT,
		note TEXT,
		receipt_status TEXT CHECK (receipt_status IN ('PENDIENTE', 'RECIBIDO')),
		receipt_confirmed_by_user_id INT REFERENCES users(id),
		receipt_confirmed_at TIMESTAMP WITH TIME ZONE,
		deleted_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
	`
	_, err := db.Exec(context.Background(), sql)
	if err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	logrus.Info("AutoMigrate applied successfully")
	return nil
}
