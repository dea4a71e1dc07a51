package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Session outcomes recorded in history
const (
	// OutcomeCommitted is a session that finished with a connect or a
	// disconnected drop
	OutcomeCommitted = "committed"
	// OutcomeCancelled is a session restored to its origin state
	OutcomeCancelled = "cancelled"
)

// SessionRecord is one finished move session as persisted in history
type SessionRecord struct {
	ID           string
	NodeID       string
	Modality     string
	Outcome      string
	OriginX      float64
	OriginY      float64
	FinalX       float64
	FinalY       float64
	ConnectionID string // neighbour connection on commit, empty otherwise
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns how long the session lasted
func (r *SessionRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// SQLiteHistoryRepository persists finished move sessions to SQLite.
// Provides an audit trail of commits and cancels with efficient querying.
type SQLiteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository creates a new SQLite-based history repository.
// Database location: ~/.gomove/gomove.db
func NewSQLiteHistoryRepository() (*SQLiteHistoryRepository, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	dbPath := filepath.Join(homeDir, ".gomove", "gomove.db")
	return NewSQLiteHistoryRepositoryWithPath(dbPath)
}

// NewSQLiteHistoryRepositoryWithPath creates a repository with a custom
// database path. Useful for testing.
func NewSQLiteHistoryRepositoryWithPath(dbPath string) (*SQLiteHistoryRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := InitializeDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &SQLiteHistoryRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteHistoryRepository) Close() error {
	return r.db.Close()
}

// Record persists a finished session. Re-recording the same session ID
// overwrites the earlier row.
func (r *SQLiteHistoryRepository) Record(rec *SessionRecord) error {
	if rec == nil {
		return fmt.Errorf("cannot record nil session")
	}
	if rec.ID == "" {
		return fmt.Errorf("cannot record session with empty ID")
	}

	var connectionID sql.NullString
	if rec.ConnectionID != "" {
		connectionID = sql.NullString{String: rec.ConnectionID, Valid: true}
	}

	_, err := r.db.Exec(`
		INSERT INTO sessions (
			id, node_id, modality, outcome,
			origin_x, origin_y, final_x, final_y,
			connection_id, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			outcome = excluded.outcome,
			final_x = excluded.final_x,
			final_y = excluded.final_y,
			connection_id = excluded.connection_id,
			finished_at = excluded.finished_at`,
		rec.ID, rec.NodeID, rec.Modality, rec.Outcome,
		rec.OriginX, rec.OriginY, rec.FinalX, rec.FinalY,
		connectionID, rec.StartedAt.UTC(), rec.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

// Find returns the session with the given ID, or an error if absent
func (r *SQLiteHistoryRepository) Find(id string) (*SessionRecord, error) {
	row := r.db.QueryRow(`
		SELECT id, node_id, modality, outcome,
		       origin_x, origin_y, final_x, final_y,
		       connection_id, started_at, finished_at
		FROM sessions WHERE id = ?`, id)

	rec, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return rec, nil
}

// List returns the most recent sessions, newest first, up to limit.
// A non-positive limit returns every session.
func (r *SQLiteHistoryRepository) List(limit int) ([]*SessionRecord, error) {
	query := `
		SELECT id, node_id, modality, outcome,
		       origin_x, origin_y, final_x, final_y,
		       connection_id, started_at, finished_at
		FROM sessions ORDER BY started_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*SessionRecord, 0)
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return records, nil
}

// ListByNode returns sessions for one node, newest first
func (r *SQLiteHistoryRepository) ListByNode(nodeID string, limit int) ([]*SessionRecord, error) {
	query := `
		SELECT id, node_id, modality, outcome,
		       origin_x, origin_y, final_x, final_y,
		       connection_id, started_at, finished_at
		FROM sessions WHERE node_id = ? ORDER BY started_at DESC, id`
	args := []interface{}{nodeID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for node %s: %w", nodeID, err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*SessionRecord, 0)
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return records, nil
}

// scanner abstracts sql.Row and sql.Rows for scanSession
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanSession reads one row into a SessionRecord
func scanSession(row scanner) (*SessionRecord, error) {
	var rec SessionRecord
	var connectionID sql.NullString
	err := row.Scan(
		&rec.ID, &rec.NodeID, &rec.Modality, &rec.Outcome,
		&rec.OriginX, &rec.OriginY, &rec.FinalX, &rec.FinalY,
		&connectionID, &rec.StartedAt, &rec.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	if connectionID.Valid {
		rec.ConnectionID = connectionID.String
	}
	return &rec, nil
}
