package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulsecare/pulse-backend/internal/repository"
	"github.com/pulsecare/pulse-backend/internal/vitals"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// VitalsRepositoryInterface defines the data access the vitals service needs
type VitalsRepositoryInterface interface {
	SaveReading(ctx context.Context, reading *model.VitalRecord) error
	GetLatestByUserID(ctx context.Context, userID string) ([]model.VitalRecord, error)
	GetHistory(ctx context.Context, userID, kind string, startDate, endDate time.Time) ([]model.VitalRecord, error)
}

// ProfileReaderInterface supplies per-user goal overrides
type ProfileReaderInterface interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
}

// VitalSnapshot is the latest reading set plus its evaluation. The statuses
// and score are derived fresh on every call and never written back.
type VitalSnapshot struct {
	Readings   []model.VitalRecord `json:"readings"`
	Evaluation vitals.Evaluation   `json:"evaluation"`
}

// VitalsService handles vital-sign tracking business logic
type VitalsService struct {
	repo     VitalsRepositoryInterface
	profiles ProfileReaderInterface
	goals    vitals.Goals
	logger   *zap.Logger
}

// NewVitalsService creates a new VitalsService. goals carries the configured
// fallback targets; per-user profile goals override them at evaluation time.
func NewVitalsService(repo VitalsRepositoryInterface, profiles ProfileReaderInterface, goals vitals.Goals, logger *zap.Logger) *VitalsService {
	return &VitalsService{
		repo:     repo,
		profiles: profiles,
		goals:    goals,
		logger:   logger,
	}
}

// numericKinds marks the metrics whose payload is a plain number; the rest
// carry a composite text encoding
var numericKinds = map[vitals.MetricKind]bool{
	vitals.MetricHeartRate:   true,
	vitals.MetricSteps:       true,
	vitals.MetricWater:       true,
	vitals.MetricTemperature: true,
	vitals.MetricOxygenLevel: true,
	vitals.MetricWeight:      true,
}

// RecordReading validates and stores one vital reading
func (s *VitalsService) RecordReading(ctx context.Context, userID string, reading *model.VitalRecord) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}

	kind := vitals.MetricKind(reading.Kind)
	known := false
	for _, k := range vitals.AllKinds {
		if k == kind {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown metric kind: %s", reading.Kind)
	}

	if numericKinds[kind] {
		if reading.Value == nil {
			return fmt.Errorf("metric %s requires a numeric value", reading.Kind)
		}
	} else if reading.TextValue == nil || *reading.TextValue == "" {
		return fmt.Errorf("metric %s requires a text value", reading.Kind)
	}

	if reading.ID == "" {
		reading.ID = uuid.New().String()
	}
	reading.UserID = userID
	if reading.RecordedAt.IsZero() {
		reading.RecordedAt = time.Now()
	}

	now := time.Now()
	reading.CreatedAt = now
	reading.UpdatedAt = now

	if err := s.repo.SaveReading(ctx, reading); err != nil {
		s.logger.Error("failed to record vital reading",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("kind", reading.Kind),
		)
		return fmt.Errorf("failed to record vital reading: %w", err)
	}

	s.logger.Info("vital reading recorded",
		zap.String("reading_id", reading.ID),
		zap.String("user_id", userID),
		zap.String("kind", reading.Kind),
	)

	return nil
}

// Snapshot returns the latest reading per metric together with the current
// evaluation. Unparseable readings surface with status Unknown and stay out
// of the score.
func (s *VitalsService) Snapshot(ctx context.Context, userID string) (*VitalSnapshot, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	records, err := s.repo.GetLatestByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load vital snapshot",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to load vital snapshot: %w", err)
	}

	goals := s.goalsForUser(ctx, userID)

	readings := make(map[vitals.MetricKind]vitals.Reading, len(records))
	for _, rec := range records {
		readings[vitals.MetricKind(rec.Kind)] = recordToReading(rec)
	}

	snapshot := &VitalSnapshot{
		Readings:   records,
		Evaluation: vitals.ComputeWellnessScore(readings, goals),
	}

	s.logger.Info("vital snapshot evaluated",
		zap.String("user_id", userID),
		zap.Int("reading_count", len(records)),
		zap.Int("score", snapshot.Evaluation.Score),
	)

	return snapshot, nil
}

// History returns readings of one kind in a date range
func (s *VitalsService) History(ctx context.Context, userID, kind string, startDate, endDate time.Time) ([]model.VitalRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before or equal to end date")
	}

	records, err := s.repo.GetHistory(ctx, userID, kind, startDate, endDate)
	if err != nil {
		s.logger.Error("failed to get vital history",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("kind", kind),
		)
		return nil, fmt.Errorf("failed to get vital history: %w", err)
	}

	return records, nil
}

// goalsForUser overlays profile goal settings on the configured defaults.
// A missing profile is not an error; the defaults apply.
func (s *VitalsService) goalsForUser(ctx context.Context, userID string) vitals.Goals {
	goals := s.goals

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("failed to load profile goals, using defaults",
				zap.Error(err),
				zap.String("user_id", userID),
			)
		}
		return goals
	}

	if profile.StepsGoal != nil && *profile.StepsGoal > 0 {
		goals.Steps = *profile.StepsGoal
	}
	if profile.WaterGoalL != nil && *profile.WaterGoalL > 0 {
		goals.WaterLiters = *profile.WaterGoalL
	}

	return goals
}

// recordToReading converts a persisted record into the evaluator's input
func recordToReading(rec model.VitalRecord) vitals.Reading {
	reading := vitals.Reading{
		Unit: rec.Unit,
		Goal: rec.Goal,
	}
	if rec.Value != nil {
		reading.Numeric = rec.Value
	}
	if rec.TextValue != nil {
		reading.Text = *rec.TextValue
	}
	return reading
}
