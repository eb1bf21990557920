// Package persistence provides schedule repositories backed by SQLite and
// PostgreSQL, plus a Redis read-through cache.
package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

const dateLayout = "2006-01-02"

// blockRecord is the stored form of a schedule block.
type blockRecord struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
	ReferenceID  string `json:"reference_id,omitempty"`
	NextDay      bool   `json:"next_day,omitempty"`
}

func toBlockRecords(blocks []domain.ScheduleBlock) []blockRecord {
	records := make([]blockRecord, len(blocks))
	for i, b := range blocks {
		records[i] = blockRecord{
			Type:         string(b.Type),
			Name:         b.Name,
			StartMinutes: b.StartMinutes,
			EndMinutes:   b.EndMinutes,
			ReferenceID:  b.ReferenceID,
			NextDay:      b.NextDay,
		}
	}
	return records
}

func fromBlockRecords(records []blockRecord) []domain.ScheduleBlock {
	blocks := make([]domain.ScheduleBlock, len(records))
	for i, r := range records {
		blocks[i] = domain.ScheduleBlock{
			Type:         domain.BlockType(r.Type),
			Name:         r.Name,
			StartMinutes: r.StartMinutes,
			EndMinutes:   r.EndMinutes,
			ReferenceID:  r.ReferenceID,
			NextDay:      r.NextDay,
		}
	}
	return blocks
}

// scheduleRecord is the stored form of a generated schedule. Blocks,
// metrics, and warnings live in JSON columns.
type scheduleRecord struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	TargetDate  string             `json:"target_date"`
	Blocks      []blockRecord      `json:"blocks"`
	Metrics     map[string]float64 `json:"metrics"`
	Warnings    []string           `json:"warnings"`
	GeneratedAt time.Time          `json:"generated_at"`
}

func toScheduleRecord(s *domain.GeneratedSchedule) scheduleRecord {
	return scheduleRecord{
		ID:          s.ScheduleID.String(),
		UserID:      s.UserID,
		TargetDate:  s.TargetDate.Format(dateLayout),
		Blocks:      toBlockRecords(s.Blocks),
		Metrics:     s.Metrics,
		Warnings:    s.Warnings,
		GeneratedAt: s.GeneratedAt,
	}
}

func fromScheduleRecord(r scheduleRecord) (*domain.GeneratedSchedule, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse schedule id %q: %w", r.ID, err)
	}
	date, err := time.Parse(dateLayout, r.TargetDate)
	if err != nil {
		return nil, fmt.Errorf("parse target date %q: %w", r.TargetDate, err)
	}
	return &domain.GeneratedSchedule{
		ScheduleID:  id,
		UserID:      r.UserID,
		TargetDate:  date,
		Blocks:      fromBlockRecords(r.Blocks),
		Metrics:     r.Metrics,
		Warnings:    r.Warnings,
		GeneratedAt: r.GeneratedAt,
	}, nil
}
