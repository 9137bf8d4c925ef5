package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/terraincognita07/fasttrack/internal/db"
	"github.com/terraincognita07/fasttrack/internal/services"
	"gorm.io/gorm"
)

var exportFormats = []string{"csv", "json", "pdf"}

// RunExportCommand writes the completed fasting history of one user. args are
// the flags after the "export" subcommand. Without --output the export goes to
// stdout.
func RunExportCommand(args []string, database *gorm.DB, location *time.Location, stdout io.Writer) error {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	email := flags.String("email", "", "account email")
	format := flags.String("format", "csv", "csv, json or pdf")
	output := flags.String("output", "", "output file path (default stdout)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse export flags: %w", err)
	}

	normalizedFormat := strings.ToLower(strings.TrimSpace(*format))
	if !isExportFormat(normalizedFormat) {
		return fmt.Errorf("unsupported export format %q (want %s)", *format, strings.Join(exportFormats, ", "))
	}
	normalizedEmail := services.NormalizeAuthEmail(*email)
	if normalizedEmail == "" {
		return errors.New("a valid --email is required")
	}

	repositories := db.NewRepositories(database)
	user, err := repositories.Users.FindByEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	destination := stdout
	if path := strings.TrimSpace(*output); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer file.Close()
		destination = file
	}

	exporter := services.NewExportService(repositories.Sessions)
	switch normalizedFormat {
	case "csv":
		entries, err := exporter.BuildEntries(user.ID, location)
		if err != nil {
			return fmt.Errorf("build export: %w", err)
		}
		return services.WriteExportCSV(destination, entries)
	case "json":
		document, err := exporter.BuildDocument(user.ID, time.Now(), location)
		if err != nil {
			return fmt.Errorf("build export: %w", err)
		}
		return services.WriteExportJSON(destination, document)
	default:
		document, err := exporter.BuildDocument(user.ID, time.Now(), location)
		if err != nil {
			return fmt.Errorf("build export: %w", err)
		}
		return services.WriteExportPDF(destination, document)
	}
}

func isExportFormat(format string) bool {
	for _, candidate := range exportFormats {
		if candidate == format {
			return true
		}
	}
	return false
}
