package profile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// MySQLConfig holds connection settings for the MySQL-backed Store.
type MySQLConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// MySQLStore implements Store on a `profiles` table keyed by the uuid's
// 36-character string form.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore opens a connection, pings it, and ensures the schema
// exists.
func NewMySQLStore(ctx context.Context, cfg MySQLConfig) (*MySQLStore, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 3306
	}
	if cfg.Database == "" {
		cfg.Database = "kestrel"
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("profile: open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("profile: ping mysql: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createSchema(ctx); err != nil {
		return nil, fmt.Errorf("profile: create schema: %w", err)
	}
	return s, nil
}

// NewMySQLStoreFromDSN opens a connection using a pre-assembled DSN (e.g.
// config.MySQLConfig.DSN) instead of building one from discrete fields.
func NewMySQLStoreFromDSN(ctx context.Context, dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("profile: open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("profile: ping mysql: %w", err)
	}
	s := &MySQLStore{db: db}
	if err := s.createSchema(ctx); err != nil {
		return nil, fmt.Errorf("profile: create schema: %w", err)
	}
	return s, nil
}

func (s *MySQLStore) createSchema(ctx context.Context) error {
	const stmt = `
	CREATE TABLE IF NOT EXISTS profiles (
		uuid CHAR(36) PRIMARY KEY,
		username VARCHAR(16) NOT NULL,
		first_seen TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_seen TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		banned BOOLEAN NOT NULL DEFAULT FALSE,
		ban_reason VARCHAR(255) NOT NULL DEFAULT '',
		INDEX idx_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

func (s *MySQLStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	const query = `SELECT uuid, username, first_seen, last_seen, banned, ban_reason FROM profiles WHERE uuid = ?`
	var rec Record
	var idStr string
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(
		&idStr, &rec.Username, &rec.FirstSeen, &rec.LastSeen, &rec.Banned, &rec.BanReason,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile: get: %w", err)
	}
	rec.UUID = id
	return &rec, nil
}

func (s *MySQLStore) Upsert(ctx context.Context, id uuid.UUID, username string) (*Record, error) {
	now := time.Now()
	const stmt = `
	INSERT INTO profiles (uuid, username, first_seen, last_seen)
	VALUES (?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE username = VALUES(username), last_seen = VALUES(last_seen)`
	if _, err := s.db.ExecContext(ctx, stmt, id.String(), username, now, now); err != nil {
		return nil, fmt.Errorf("profile: upsert: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *MySQLStore) SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason string) error {
	const stmt = `UPDATE profiles SET banned = ?, ban_reason = ? WHERE uuid = ?`
	res, err := s.db.ExecContext(ctx, stmt, banned, reason, id.String())
	if err != nil {
		return fmt.Errorf("profile: set banned: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("profile: set banned rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) Close() error { return s.db.Close() }
