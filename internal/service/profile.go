package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pulsecare/pulse-backend/internal/audit"
	"github.com/pulsecare/pulse-backend/internal/repository"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// ProfileRepositoryInterface defines the data access the profile service needs
type ProfileRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Upsert(ctx context.Context, profile *model.Profile) error
}

// ProfileService handles user profile business logic
type ProfileService struct {
	repo   ProfileRepositoryInterface
	audit  AuditLoggerInterface
	logger *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(repo ProfileRepositoryInterface, auditLogger AuditLoggerInterface, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		audit:  auditLogger,
		logger: logger,
	}
}

// GetProfile returns a user's profile. A user who never saved a profile gets
// an empty one rather than an error; the app renders it as a blank form.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.Profile{UserID: userID}, nil
		}
		s.logger.Error("failed to get profile",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	s.audit.Log(ctx, audit.Entry{
		UserID:        userID,
		OperationType: audit.OperationRead,
		ResourceType:  audit.ResourceProfile,
		ResourceID:    userID,
	})

	return profile, nil
}

// UpdateProfile validates and stores profile changes
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, profile *model.Profile) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if err := validateProfile(profile); err != nil {
		return err
	}

	profile.UserID = userID
	profile.UpdatedAt = time.Now()

	if err := s.repo.Upsert(ctx, profile); err != nil {
		s.logger.Error("failed to update profile",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.audit.Log(ctx, audit.Entry{
		UserID:        userID,
		OperationType: audit.OperationUpdate,
		ResourceType:  audit.ResourceProfile,
		ResourceID:    userID,
	})

	s.logger.Info("profile updated", zap.String("user_id", userID))

	return nil
}

func validateProfile(profile *model.Profile) error {
	if profile.HeightCm != nil && (*profile.HeightCm < 30 || *profile.HeightCm > 300) {
		return fmt.Errorf("height must be between 30 and 300 cm")
	}
	if profile.StepsGoal != nil && *profile.StepsGoal <= 0 {
		return fmt.Errorf("steps goal must be positive")
	}
	if profile.WaterGoalL != nil && *profile.WaterGoalL <= 0 {
		return fmt.Errorf("water goal must be positive")
	}
	if profile.DateOfBirth != nil && profile.DateOfBirth.After(time.Now()) {
		return fmt.Errorf("date of birth cannot be in the future")
	}
	return nil
}
