package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/tidymail/tidymail/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the AuditStore interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore opens (and if needed initializes) the audit database
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS meta (
			` + "`key`" + ` VARCHAR(64) PRIMARY KEY,
			value VARCHAR(255) NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create meta table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audit (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			ts VARCHAR(64) NOT NULL,
			message_id VARCHAR(255) NOT NULL,
			action VARCHAR(16) NOT NULL,
			decided_by VARCHAR(16) NOT NULL,
			reason TEXT,
			subject TEXT,
			sender VARCHAR(255),
			INDEX idx_message_id (message_id)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// AppendRecords appends one audit row per decision
func (s *MySQLStore) AppendRecords(ctx context.Context, at time.Time, decisions []*core.Decision) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO audit(ts, message_id, action, decided_by, reason, subject, sender)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	ts := at.UTC().Format(time.RFC3339)
	for _, d := range decisions {
		if _, err := stmt.ExecContext(ctx, ts, d.Message.ID, string(d.Action), d.By,
			d.Reason, d.Message.Subject, d.Message.FromAddr); err != nil {
			return fmt.Errorf("failed to insert audit row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit records: %w", err)
	}

	s.logger.Debug("Appended audit records", zap.Int("count", len(decisions)))
	return nil
}

// GetLastRun returns the timestamp of the last completed run, if any
func (s *MySQLStore) GetLastRun(ctx context.Context) (time.Time, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE `key` = ? LIMIT 1", lastRunKey).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query last run: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse last run timestamp: %w", err)
	}
	return ts, true, nil
}

// SetLastRun persists the timestamp of the latest completed run
func (s *MySQLStore) SetLastRun(ctx context.Context, ts time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta(`+"`key`"+`, value) VALUES(?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)
	`, lastRunKey, ts.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to persist last run: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
