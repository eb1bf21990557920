package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// NewPostgresPool connects to PostgreSQL and ensures the schema exists.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return pool, nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS schedules (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	target_date DATE NOT NULL,
	blocks JSONB NOT NULL,
	metrics JSONB NOT NULL,
	warnings JSONB NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, target_date)
);
`

// PostgresScheduleRepository stores schedules in PostgreSQL with JSONB
// columns for the block list, metrics, and warnings.
type PostgresScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresScheduleRepository creates a repository over a connection pool.
func NewPostgresScheduleRepository(pool *pgxpool.Pool) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{pool: pool}
}

// Save upserts by (user_id, target_date).
func (r *PostgresScheduleRepository) Save(ctx context.Context, schedule *domain.GeneratedSchedule) error {
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

	_, err = r.pool.Exec(ctx, `
		INSERT INTO schedules (id, user_id, target_date, blocks, metrics, warnings, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, target_date) DO UPDATE SET
			id = EXCLUDED.id,
			blocks = EXCLUDED.blocks,
			metrics = EXCLUDED.metrics,
			warnings = EXCLUDED.warnings,
			generated_at = EXCLUDED.generated_at`,
		record.ID, record.UserID, record.TargetDate,
		blocks, metrics, warnings, record.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("save schedule %s: %w", record.ID, err)
	}
	return nil
}

// FindByID implements domain.ScheduleRepository.
func (r *PostgresScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedSchedule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, to_char(target_date, 'YYYY-MM-DD'), blocks, metrics, warnings, generated_at
		FROM schedules WHERE id = $1`, id)
	return r.scan(row)
}

// FindByUserAndDate implements domain.ScheduleRepository.
func (r *PostgresScheduleRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.GeneratedSchedule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, to_char(target_date, 'YYYY-MM-DD'), blocks, metrics, warnings, generated_at
		FROM schedules WHERE user_id = $1 AND target_date = $2`,
		userID, date.Format(dateLayout))
	return r.scan(row)
}

func (r *PostgresScheduleRepository) scan(row pgx.Row) (*domain.GeneratedSchedule, error) {
	var record scheduleRecord
	var blocks, metrics, warnings []byte

	err := row.Scan(&record.ID, &record.UserID, &record.TargetDate, &blocks, &metrics, &warnings, &record.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan schedule: %w", err)
	}

	if err := json.Unmarshal(blocks, &record.Blocks); err != nil {
		return nil, fmt.Errorf("unmarshal blocks: %w", err)
	}
	if err := json.Unmarshal(metrics, &record.Metrics); err != nil {
		return nil, fmt.Errorf("unmarshal metrics: %w", err)
	}
	if err := json.Unmarshal(warnings, &record.Warnings); err != nil {
		return nil, fmt.Errorf("unmarshal warnings: %w", err)
	}

	return fromScheduleRecord(record)
}

var _ domain.ScheduleRepository = (*PostgresScheduleRepository)(nil)
