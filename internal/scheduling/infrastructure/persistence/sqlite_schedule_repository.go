package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// OpenSQLite opens the database with WAL and a busy timeout, and ensures
// the schema exists.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc sqlite serializes writes through a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS schedules (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	target_date TEXT NOT NULL,
	blocks TEXT NOT NULL,
	metrics TEXT NOT NULL,
	warnings TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	UNIQUE (user_id, target_date)
);
CREATE INDEX IF NOT EXISTS idx_schedules_user_date ON schedules (user_id, target_date);
`

// SQLiteScheduleRepository stores schedules in a local SQLite database.
type SQLiteScheduleRepository struct {
	db *sql.DB
}

// NewSQLiteScheduleRepository creates a repository over an open database.
func NewSQLiteScheduleRepository(db *sql.DB) *SQLiteScheduleRepository {
	return &SQLiteScheduleRepository{db: db}
}

// Save upserts by (user_id, target_date).
func (r *SQLiteScheduleRepository) Save(ctx context.Context, schedule *domain.GeneratedSchedule) error {
	record := toScheduleRecord(schedule)

	blocks, err := json.Marshal(record.Blocks)
	if err != nil {
		return fmt.Errorf("marshal blocks: %w", err)
	}
	metrics, err := json.Marshal(record.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	warnings, err := json.Marshal(record.Warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO schedules (id, user_id, target_date, blocks, metrics, warnings, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, target_date) DO UPDATE SET
			id = excluded.id,
			blocks = excluded.blocks,
			metrics = excluded.metrics,
			warnings = excluded.warnings,
			generated_at = excluded.generated_at`,
		record.ID, record.UserID, record.TargetDate,
		string(blocks), string(metrics), string(warnings),
		record.GeneratedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save schedule %s: %w", record.ID, err)
	}
	return nil
}

// FindByID implements domain.ScheduleRepository.
func (r *SQLiteScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedSchedule, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, target_date, blocks, metrics, warnings, generated_at
		FROM schedules WHERE id = ?`, id.String())
	return r.scan(row)
}

// FindByUserAndDate implements domain.ScheduleRepository.
func (r *SQLiteScheduleRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.GeneratedSchedule, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, target_date, blocks, metrics, warnings, generated_at
		FROM schedules WHERE user_id = ? AND target_date = ?`,
		userID, date.Format(dateLayout))
	return r.scan(row)
}

func (r *SQLiteScheduleRepository) scan(row *sql.Row) (*domain.GeneratedSchedule, error) {
	var record scheduleRecord
	var blocks, metrics, warnings, generatedAt string

	err := row.Scan(&record.ID, &record.UserID, &record.TargetDate, &blocks, &metrics, &warnings, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan schedule: %w", err)
	}

	if err := json.Unmarshal([]byte(blocks), &record.Blocks); err != nil {
		return nil, fmt.Errorf("unmarshal blocks: %w", err)
	}
	if err := json.Unmarshal([]byte(metrics), &record.Metrics); err != nil {
		return nil, fmt.Errorf("unmarshal metrics: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &record.Warnings); err != nil {
		return nil, fmt.Errorf("unmarshal warnings: %w", err)
	}
	record.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse generated_at: %w", err)
	}

	return fromScheduleRecord(record)
}

var _ domain.ScheduleRepository = (*SQLiteScheduleRepository)(nil)
