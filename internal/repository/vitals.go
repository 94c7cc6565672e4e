package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// VitalsRepository manages persisted vital-sign readings
type VitalsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewVitalsRepository creates a new VitalsRepository
func NewVitalsRepository(db *pgxpool.Pool, logger *zap.Logger) *VitalsRepository {
	return &VitalsRepository{
		db:     db,
		logger: logger,
	}
}

// SaveReading appends a vital reading. Readings are never mutated in place;
// the latest one per kind wins at snapshot time.
func (r *VitalsRepository) SaveReading(ctx context.Context, reading *model.VitalRecord) error {
	query := `
		INSERT INTO vital_readings (
			id, user_id, kind, value, text_value, unit, goal,
			recorded_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	_, err := r.db.Exec(ctx, query,
		reading.ID,
		reading.UserID,
		reading.Kind,
		reading.Value,
		reading.TextValue,
		reading.Unit,
		reading.Goal,
		reading.RecordedAt,
	)

	if err != nil {
		r.logger.Error("failed to save vital reading",
			zap.Error(err),
			zap.String("user_id", reading.UserID),
			zap.String("kind", reading.Kind),
		)
		return fmt.Errorf("failed to save vital reading: %w", err)
	}

	return nil
}

// GetLatestByUserID returns the most recent reading per metric kind
func (r *VitalsRepository) GetLatestByUserID(ctx context.Context, userID string) ([]model.VitalRecord, error) {
	query := `
		SELECT DISTINCT ON (kind)
			id, user_id, kind, value, text_value, unit, goal,
			recorded_at, created_at, updated_at
		FROM vital_readings
		WHERE user_id = $1
		ORDER BY kind, recorded_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to get latest vital readings", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get latest vital readings: %w", err)
	}
	defer rows.Close()

	var readings []model.VitalRecord
	for rows.Next() {
		var reading model.VitalRecord
		err := rows.Scan(
			&reading.ID,
			&reading.UserID,
			&reading.Kind,
			&reading.Value,
			&reading.TextValue,
			&reading.Unit,
			&reading.Goal,
			&reading.RecordedAt,
			&reading.CreatedAt,
			&reading.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan vital reading", zap.Error(err))
			continue
		}
		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating vital readings", zap.Error(err))
		return nil, fmt.Errorf("error iterating vital readings: %w", err)
	}

	return readings, nil
}

// GetHistory returns readings of one kind within a date range, newest first
func (r *VitalsRepository) GetHistory(ctx context.Context, userID, kind string, startDate, endDate time.Time) ([]model.VitalRecord, error) {
	query := `
		SELECT
			id, user_id, kind, value, text_value, unit, goal,
			recorded_at, created_at, updated_at
		FROM vital_readings
		WHERE user_id = $1 AND kind = $2
		  AND recorded_at >= $3 AND recorded_at <= $4
		ORDER BY recorded_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, kind, startDate, endDate)
	if err != nil {
		r.logger.Error("failed to get vital history",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("kind", kind),
		)
		return nil, fmt.Errorf("failed to get vital history: %w", err)
	}
	defer rows.Close()

	var readings []model.VitalRecord
	for rows.Next() {
		var reading model.VitalRecord
		err := rows.Scan(
			&reading.ID,
			&reading.UserID,
			&reading.Kind,
			&reading.Value,
			&reading.TextValue,
			&reading.Unit,
			&reading.Goal,
			&reading.RecordedAt,
			&reading.CreatedAt,
			&reading.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan vital reading", zap.Error(err))
			continue
		}
		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating vital history", zap.Error(err))
		return nil, fmt.Errorf("error iterating vital history: %w", err)
	}

	return readings, nil
}
