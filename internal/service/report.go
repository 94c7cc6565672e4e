package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pulsecare/pulse-backend/internal/audit"
	"github.com/pulsecare/pulse-backend/internal/pdf"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// ReportGeneratorInterface renders report data into a document
type ReportGeneratorInterface interface {
	Generate(data *pdf.ReportData) ([]byte, error)
}

// ReminderListerInterface supplies the active reminders for a report
type ReminderListerInterface interface {
	ListReminders(ctx context.Context, userID string, activeOnly bool) ([]model.Reminder, error)
}

// ReportService assembles shareable wellness reports
type ReportService struct {
	snapshots SnapshotProviderInterface
	reminders ReminderListerInterface
	profiles  ProfileReaderInterface
	generator ReportGeneratorInterface
	audit     AuditLoggerInterface
	logger    *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	snapshots SnapshotProviderInterface,
	reminders ReminderListerInterface,
	profiles ProfileReaderInterface,
	generator ReportGeneratorInterface,
	auditLogger AuditLoggerInterface,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		snapshots: snapshots,
		reminders: reminders,
		profiles:  profiles,
		generator: generator,
		audit:     auditLogger,
		logger:    logger,
	}
}

// GenerateWellnessReport builds a PDF from the user's current snapshot and
// active reminders and returns the document bytes.
func (s *ReportService) GenerateWellnessReport(ctx context.Context, userID string) ([]byte, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	snapshot, err := s.snapshots.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vitals for report: %w", err)
	}

	reminders, err := s.reminders.ListReminders(ctx, userID, true)
	if err != nil {
		// A report without reminders is still useful.
		s.logger.Warn("failed to load reminders for report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		reminders = nil
	}

	data := &pdf.ReportData{
		UserName:    s.displayName(ctx, userID),
		GeneratedAt: time.Now(),
		Score:       snapshot.Evaluation.Score,
		Breakdown:   snapshot.Evaluation.Breakdown,
		Readings:    snapshot.Readings,
		Reminders:   reminders,
	}

	doc, err := s.generator.Generate(data)
	if err != nil {
		s.logger.Error("failed to generate wellness report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to generate wellness report: %w", err)
	}

	s.audit.Log(ctx, audit.Entry{
		UserID:        userID,
		OperationType: audit.OperationExport,
		ResourceType:  audit.ResourceReport,
		ResourceID:    userID,
	})

	s.logger.Info("wellness report generated",
		zap.String("user_id", userID),
		zap.Int("score", snapshot.Evaluation.Score),
		zap.Int("size_bytes", len(doc)),
	)

	return doc, nil
}

func (s *ReportService) displayName(ctx context.Context, userID string) string {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil || profile.DisplayName == "" {
		return "PulseCare user"
	}
	return profile.DisplayName
}
