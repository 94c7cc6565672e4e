package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pulsecare/pulse-backend/internal/vitals"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator renders wellness reports for sharing with caregivers
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains all data needed for report generation
type ReportData struct {
	UserName    string
	GeneratedAt time.Time
	Score       int
	Breakdown   []vitals.ComponentScore
	Readings    []model.VitalRecord
	Reminders   []model.Reminder
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating wellness report",
		zap.String("user_name", data.UserName),
		zap.Int("score", data.Score),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	g.addTitle(pdf, "Wellness Report", data.UserName, data.GeneratedAt)
	g.addScoreBanner(pdf, data.Score)
	g.addVitalBreakdown(pdf, data.Breakdown)
	g.addLatestReadings(pdf, data.Readings)
	g.addReminders(pdf, data.Reminders)

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("wellness report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, userName string, generatedAt time.Time) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Name: %s", userName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addScoreBanner renders the overall wellness score
func (g *PDFGenerator) addScoreBanner(pdf *gofpdf.Fpdf, score int) {
	g.addSectionHeader(pdf, "Overall Wellness Score")

	pdf.SetFont("Arial", "B", 28)
	switch {
	case score >= 75:
		pdf.SetTextColor(46, 125, 50)
	case score >= 50:
		pdf.SetTextColor(239, 108, 0)
	default:
		pdf.SetTextColor(198, 40, 40)
	}
	pdf.CellFormat(0, 14, fmt.Sprintf("%d / 100", score), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	pdf.Ln(5)
}

// addVitalBreakdown renders the per-metric contribution table
func (g *PDFGenerator) addVitalBreakdown(pdf *gofpdf.Fpdf, breakdown []vitals.ComponentScore) {
	g.addSectionHeader(pdf, "Score Breakdown")

	if len(breakdown) == 0 {
		pdf.CellFormat(0, 8, "No scorable readings available.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 7, "Metric", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, "Value", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Status", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Points", "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	for _, component := range breakdown {
		pdf.CellFormat(50, 6, string(component.Kind), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, component.Value, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, string(component.Status), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d / %d", component.Points, component.Max), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)
}

// addLatestReadings lists the most recent reading per metric
func (g *PDFGenerator) addLatestReadings(pdf *gofpdf.Fpdf, readings []model.VitalRecord) {
	g.addSectionHeader(pdf, "Latest Readings")

	if len(readings) == 0 {
		pdf.CellFormat(0, 8, "No readings recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, reading := range readings {
		dateStr := reading.RecordedAt.Format("2006-01-02 15:04")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, reading.Kind, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)

		value := ""
		if reading.Value != nil {
			value = fmt.Sprintf("%g %s", *reading.Value, reading.Unit)
		} else if reading.TextValue != nil {
			value = fmt.Sprintf("%s %s", *reading.TextValue, reading.Unit)
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s (recorded %s)", value, dateStr), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
	pdf.Ln(5)
}

// addReminders lists active medication and appointment reminders
func (g *PDFGenerator) addReminders(pdf *gofpdf.Fpdf, reminders []model.Reminder) {
	g.addSectionHeader(pdf, "Active Reminders")

	if len(reminders) == 0 {
		pdf.CellFormat(0, 8, "No active reminders.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, reminder := range reminders {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s)", reminder.Title, reminder.Type), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  At: %s, repeats: %s", reminder.RemindAt.Format("2006-01-02 15:04"), reminder.RepeatRule), "", 1, "L", false, 0, "")
		if reminder.Dosage != nil && *reminder.Dosage != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Dosage: %s", *reminder.Dosage), "", 1, "L", false, 0, "")
		}
		if reminder.Location != nil && *reminder.Location != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Location: %s", *reminder.Location), "", 1, "L", false, 0, "")
		}
		if reminder.Notes != nil && *reminder.Notes != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Notes: %s", *reminder.Notes), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}
	pdf.Ln(5)
}
