package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pulsecare/pulse-backend/internal/security"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// ProfileRepository manages user profiles. Medical notes are encrypted
// at rest.
type ProfileRepository struct {
	db        *pgxpool.Pool
	encryptor *security.Encryptor
	logger    *zap.Logger
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool, encryptor *security.Encryptor, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:        db,
		encryptor: encryptor,
		logger:    logger,
	}
}

// GetByUserID returns a user's profile
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	query := `
		SELECT
			user_id, display_name, date_of_birth, gender, height_cm,
			steps_goal, water_goal_l, medical_notes, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile model.Profile
	var encryptedNotes *string
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.DateOfBirth,
		&profile.Gender,
		&profile.HeightCm,
		&profile.StepsGoal,
		&profile.WaterGoalL,
		&encryptedNotes,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to get profile", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if encryptedNotes != nil {
		notes, err := r.encryptor.Decrypt(*encryptedNotes)
		if err != nil {
			r.logger.Error("failed to decrypt medical notes",
				zap.Error(err),
				zap.String("user_id", userID),
			)
			return nil, fmt.Errorf("failed to decrypt medical notes: %w", err)
		}
		profile.MedicalNotes = &notes
	}

	return &profile, nil
}

// Upsert creates or replaces a user's profile
func (r *ProfileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	var encryptedNotes *string
	if profile.MedicalNotes != nil {
		enc, err := r.encryptor.Encrypt(*profile.MedicalNotes)
		if err != nil {
			return fmt.Errorf("failed to encrypt medical notes: %w", err)
		}
		encryptedNotes = &enc
	}

	query := `
		INSERT INTO profiles (
			user_id, display_name, date_of_birth, gender, height_cm,
			steps_goal, water_goal_l, medical_notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender,
			height_cm = EXCLUDED.height_cm,
			steps_goal = EXCLUDED.steps_goal,
			water_goal_l = EXCLUDED.water_goal_l,
			medical_notes = EXCLUDED.medical_notes,
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.DateOfBirth,
		profile.Gender,
		profile.HeightCm,
		profile.StepsGoal,
		profile.WaterGoalL,
		encryptedNotes,
	)

	if err != nil {
		r.logger.Error("failed to upsert profile",
			zap.Error(err),
			zap.String("user_id", profile.UserID),
		)
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}
