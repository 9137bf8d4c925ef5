package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/terraincognita07/fasttrack/internal/models"
)

const exportDateLayout = "2006-01-02"

var ExportCSVHeaders = []string{
	"Started at",
	"Ended at",
	"Duration hours",
	"Goal hours",
	"Goal met",
	"Notes",
}

type ExportSessionReader interface {
	ListCompleted(userID uint) ([]models.FastingSession, error)
}

type ExportService struct {
	sessions ExportSessionReader
}

type ExportSummary struct {
	TotalSessions int     `json:"total_sessions"`
	HasData       bool    `json:"has_data"`
	TotalHours    float64 `json:"total_hours"`
	DateFrom      string  `json:"date_from"`
	DateTo        string  `json:"date_to"`
}

type ExportEntry struct {
	ID            string   `json:"id"`
	StartedAt     string   `json:"started_at"`
	EndedAt       string   `json:"ended_at"`
	DurationHours float64  `json:"duration_hours"`
	GoalHours     *float64 `json:"goal_hours"`
	GoalMet       bool     `json:"goal_met"`
	Notes         string   `json:"notes"`
}

type ExportDocument struct {
	ExportedAt string        `json:"exported_at"`
	Summary    ExportSummary `json:"summary"`
	Entries    []ExportEntry `json:"entries"`
}

func NewExportService(sessions ExportSessionReader) *ExportService {
	return &ExportService{sessions: sessions}
}

// BuildEntries returns the completed history oldest first.
func (service *ExportService) BuildEntries(userID uint, location *time.Location) ([]ExportEntry, error) {
	sessions, err := service.sessions.ListCompleted(userID)
	if err != nil {
		return nil, err
	}
	completed := completedSessions(sessions)
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].StartedAt.Before(completed[j].StartedAt)
	})

	entries := make([]ExportEntry, 0, len(completed))
	for _, session := range completed {
		entry := ExportEntry{
			ID:            session.ID,
			StartedAt:     session.StartedAt.In(exportLocation(location)).Format(time.RFC3339),
			EndedAt:       session.EndedAt.In(exportLocation(location)).Format(time.RFC3339),
			DurationHours: RoundToTenth(sessionHours(session)),
			GoalMet:       sessionMetGoal(session),
		}
		if session.GoalMinutes != nil {
			goalHours := RoundToTenth(float64(*session.GoalMinutes) / 60)
			entry.GoalHours = &goalHours
		}
		if session.Notes != nil {
			entry.Notes = *session.Notes
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (service *ExportService) BuildDocument(userID uint, now time.Time, location *time.Location) (ExportDocument, error) {
	entries, err := service.BuildEntries(userID, location)
	if err != nil {
		return ExportDocument{}, err
	}
	return ExportDocument{
		ExportedAt: now.In(exportLocation(location)).Format(time.RFC3339),
		Summary:    SummarizeExport(entries),
		Entries:    entries,
	}, nil
}

func SummarizeExport(entries []ExportEntry) ExportSummary {
	if len(entries) == 0 {
		return ExportSummary{}
	}
	summary := ExportSummary{
		TotalSessions: len(entries),
		HasData:       true,
		DateFrom:      entries[0].StartedAt[:len(exportDateLayout)],
		DateTo:        entries[len(entries)-1].EndedAt[:len(exportDateLayout)],
	}
	var total float64
	for _, entry := range entries {
		total += entry.DurationHours
	}
	summary.TotalHours = RoundToTenth(total)
	return summary
}

func WriteExportCSV(w io.Writer, entries []ExportEntry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportCSVHeaders); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writer.Write([]string{
			entry.StartedAt,
			entry.EndedAt,
			strconv.FormatFloat(entry.DurationHours, 'f', 1, 64),
			formatOptionalHours(entry.GoalHours),
			csvYesNo(entry.GoalMet),
			entry.Notes,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteExportJSON(w io.Writer, document ExportDocument) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document)
}

func WriteExportPDF(w io.Writer, document ExportDocument) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Fasting History")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Exported: %s", document.ExportedAt))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Sessions: %d   Total hours: %.1f", document.Summary.TotalSessions, document.Summary.TotalHours))
	pdf.Ln(10)

	if len(document.Entries) == 0 {
		pdf.Cell(0, 8, "No completed fasts yet.")
		return pdf.Output(w)
	}

	widths := []float64{45, 45, 25, 25, 20}
	pdf.SetFont("Arial", "B", 11)
	for index, header := range []string{"Started", "Ended", "Hours", "Goal", "Met"} {
		pdf.CellFormat(widths[index], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, entry := range document.Entries {
		pdf.CellFormat(widths[0], 7, pdfTimestamp(entry.StartedAt), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, pdfTimestamp(entry.EndedAt), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, strconv.FormatFloat(entry.DurationHours, 'f', 1, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, formatOptionalHours(entry.GoalHours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, csvYesNo(entry.GoalMet), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		if entry.Notes != "" {
			pdf.MultiCell(0, 6, "  "+entry.Notes, "", "", false)
		}
	}
	return pdf.Output(w)
}

func BuildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("fasttrack-export-%s.%s", now.Format(exportDateLayout), extension)
}

func pdfTimestamp(value string) string {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return parsed.Format("2006-01-02 15:04")
}

func formatOptionalHours(hours *float64) string {
	if hours == nil {
		return ""
	}
	return strconv.FormatFloat(*hours, 'f', 1, 64)
}

func csvYesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func exportLocation(location *time.Location) *time.Location {
	if location == nil {
		return time.UTC
	}
	return location
}
