// Package database wraps the MySQL connection with pooled settings,
// per-operation timeouts, and schema bootstrap for the stores table.
package database

import (
	"context"
	"database/sql"
	"time"

	"seoul-store-crawler/pkg/config"
	errs "seoul-store-crawler/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
)

const (
	readTimeoutDefault  = 8 * time.Second
	writeTimeoutDefault = 6 * time.Second
)

type DB struct {
	conn         *sql.DB
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New(databaseURL string) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(10 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, errs.NewDB("database.New", "failed to ping database", err)
	}

	return &DB{
		conn:         conn,
		readTimeout:  readTimeoutDefault,
		writeTimeout: writeTimeoutDefault,
	}, nil
}

// NewWithConfig creates a database connection with custom pool settings.
func NewWithConfig(databaseURL string, cfg *config.Config) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	conn.SetMaxIdleConns(cfg.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, errs.NewDB("database.NewWithConfig", "failed to ping database", err)
	}

	rt := cfg.DBReadTimeout
	if rt == 0 {
		rt = readTimeoutDefault
	}
	wt := cfg.DBWriteTimeout
	if wt == 0 {
		wt = writeTimeoutDefault
	}

	return &DB{
		conn:         conn,
		readTimeout:  rt,
		writeTimeout: wt,
	}, nil
}

// Conn exposes the underlying pool for query layers.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// WithReadTimeout derives a context bounded by the standard read timeout.
func (db *DB) WithReadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.readTimeout)
}

// WithWriteTimeout derives a context bounded by the standard write timeout.
func (db *DB) WithWriteTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.writeTimeout)
}

// EnsureSchema creates the stores table and indexes when missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	ctx, cancel := db.WithWriteTimeout(ctx)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS stores (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			diningcode_place_id VARCHAR(50) NOT NULL,
			name VARCHAR(200) NOT NULL,
			basic_address TEXT,
			address TEXT,
			phone VARCHAR(20),
			category VARCHAR(100),
			raw_categories JSON,
			price_text TEXT,
			description TEXT,
			hours_text TEXT,
			detail_url TEXT,
			keyword VARCHAR(100),
			rect_area VARCHAR(100),
			rating DECIMAL(3,2),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			lat DECIMAL(10,8),
			lng DECIMAL(11,8),
			open_hours TEXT,
			holiday VARCHAR(100),
			break_time VARCHAR(100),
			last_order VARCHAR(20),
			min_price INT,
			max_price INT,
			tags JSON,
			enhanced_at TIMESTAMP NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_stores_place_id (diningcode_place_id),
			KEY idx_stores_status (status),
			KEY idx_stores_position (lat, lng)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return errs.NewDB("database.EnsureSchema", "failed to create schema", err)
		}
	}
	return nil
}
