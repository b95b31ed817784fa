// Package report provides utility functions for handling published report files.
//
// A managed report file name encodes the category and creation time of the
// report. The grammar is bidirectional: FileName and Parse round-trip.
package report

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/serverless-qa/report-pages/internal/constants"
)

var (
	// ErrInvalidReportExt is returned when a file has an unmanaged extension.
	ErrInvalidReportExt = errors.New("invalid report file extension")

	// ErrInvalidReportName is returned when a file name does not follow the managed report grammar.
	ErrInvalidReportName = errors.New("invalid report file name")
)

// Naming describes the managed report file name grammar:
//
//	<prefix><timestamp><sep><category><ext>
//
// The timestamp layout must be fixed width.
type Naming struct {
	Prefix     string
	Ext        string
	TimeLayout string
}

// DefaultNaming returns the naming convention used by the publishing workflow.
func DefaultNaming() Naming {
	return Naming{
		Prefix:     constants.ReportPrefix,
		Ext:        constants.ReportExt,
		TimeLayout: constants.TimestampLayout,
	}
}

const categorySeparator = "_"

// Report represents a managed report file.
type Report struct {
	Path     string    // Path is the path to the report file.
	Name     string    // Name is the name of the report file, including extension.
	Category string    // Category is the category token encoded in the file name.
	Time     time.Time // Time is the creation time encoded in the file name.
}

// FileName returns the managed file name for a category and creation time.
func (n Naming) FileName(category string, t time.Time) string {
	return n.Prefix + t.Format(n.TimeLayout) + categorySeparator + category + n.Ext
}

// Parse parses a file name into a Report.
//
// Malformed names are not errors of the run: they return ErrInvalidReportExt
// or ErrInvalidReportName wrapped with the offending part, and the caller is
// expected to treat the file as unmanaged.
//
// Parse does not validate the category against any recognized set; it only
// enforces the grammar. It does not touch the file system.
func (n Naming) Parse(path string) (Report, error) {
	name := filepath.Base(path)

	if filepath.Ext(name) != n.Ext {
		return Report{}, fmt.Errorf("%w: %s", ErrInvalidReportExt, name)
	}
	body := strings.TrimSuffix(name, n.Ext)

	if !strings.HasPrefix(body, n.Prefix) {
		return Report{}, fmt.Errorf("%w: missing %q prefix: %s", ErrInvalidReportName, n.Prefix, name)
	}
	body = strings.TrimPrefix(body, n.Prefix)

	// Fixed width timestamp followed by the category separator.
	if len(body) <= len(n.TimeLayout)+len(categorySeparator) {
		return Report{}, fmt.Errorf("%w: truncated: %s", ErrInvalidReportName, name)
	}
	tsPart := body[:len(n.TimeLayout)]
	rest := body[len(n.TimeLayout):]

	t, err := time.Parse(n.TimeLayout, tsPart)
	if err != nil {
		return Report{}, fmt.Errorf("%w: bad timestamp %q: %v", ErrInvalidReportName, tsPart, err)
	}

	if !strings.HasPrefix(rest, categorySeparator) {
		return Report{}, fmt.Errorf("%w: missing category separator: %s", ErrInvalidReportName, name)
	}
	category := strings.TrimPrefix(rest, categorySeparator)
	if category == "" || strings.ContainsAny(category, categorySeparator+`/\`) {
		return Report{}, fmt.Errorf("%w: bad category token %q", ErrInvalidReportName, category)
	}

	return Report{Path: path, Name: name, Category: category, Time: t}, nil
}

// GetAll returns all managed reports in a given directory, in one snapshot.
// Files that do not follow the grammar are skipped and logged.
// Does not traverse subdirectories.
func GetAll(l *slog.Logger, dir string, naming Naming) ([]Report, error) {
	reports := make([]Report, 0)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path: %v", err)
		}

		// Skip subdirectories.
		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		r, err := naming.Parse(path)
		if errors.Is(err, ErrInvalidReportExt) || errors.Is(err, ErrInvalidReportName) {
			l.Debug("Skipping non-report file", "file", d.Name(), "error", err)
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to parse report file name: %v", err)
		}

		reports = append(reports, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reports, nil
}
