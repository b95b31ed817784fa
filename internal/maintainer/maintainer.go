// Package maintainer implements the report-publishing maintainer.
//
// A maintainer performs one scan, prune, regenerate pass over a flat
// directory of published report files: it snapshots the directory once,
// deletes reports which fall outside the per-category retention window, and
// rewrites the index document from whatever survived. The directory listing
// is the only state; running the same pass twice changes nothing.
package maintainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/serverless-qa/report-pages/internal/categories"
	"github.com/serverless-qa/report-pages/internal/constants"
	"github.com/serverless-qa/report-pages/internal/fileutils"
	"github.com/serverless-qa/report-pages/internal/report"
)

var (
	// ErrInvalidMaxReports is returned when the retention count is not a positive integer.
	ErrInvalidMaxReports = errors.New("max reports must be a positive integer")

	// ErrNoCategories is returned when the catalog recognizes no categories.
	ErrNoCategories = errors.New("no recognized categories configured")

	// ErrNoDirectory is returned when no reports directory is configured.
	ErrNoDirectory = errors.New("reports directory cannot be an empty string")
)

// Config is the externally supplied configuration of a maintenance pass.
type Config struct {
	// Dir is the flat directory holding the published reports and the index.
	Dir string

	// MaxReports is the number of most recent reports kept per category.
	MaxReports uint

	// Catalog defines the recognized categories.
	Catalog categories.Catalog

	// IncludeOther renders reports with an unrecognized category token in a
	// trailing index section. Such reports are never pruned either way.
	IncludeOther bool

	// IndexName is the name of the index document inside Dir.
	IndexName string

	// DryRun logs what would be deleted and written without touching anything.
	DryRun bool
}

type timeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

// Maintainer is an abstraction of the report maintainer component.
type Maintainer struct {
	cfg    Config
	naming report.Naming
	log    *slog.Logger

	timeProvider timeProvider
	remove       func(string) error
}

type options struct {
	// Private members overridden for tests.
	naming       report.Naming
	logger       *slog.Logger
	timeProvider timeProvider
	remove       func(string) error
}

// Options represents an optional function to override Maintainer default values.
type Options func(*options)

// New returns a new Maintainer for the given configuration.
//
// Configuration errors are fatal here, before any file is touched.
func New(cfg Config, args ...Options) (Maintainer, error) {
	if cfg.Dir == "" {
		return Maintainer{}, ErrNoDirectory
	}
	if cfg.MaxReports < 1 {
		return Maintainer{}, ErrInvalidMaxReports
	}
	if len(cfg.Catalog.All()) == 0 {
		return Maintainer{}, ErrNoCategories
	}
	if cfg.IndexName == "" {
		cfg.IndexName = constants.DefaultIndexName
	}

	opts := options{
		naming:       report.DefaultNaming(),
		logger:       slog.Default().With("component", "maintainer"),
		timeProvider: realTimeProvider{},
		remove:       os.Remove,
	}
	for _, opt := range args {
		opt(&opts)
	}

	return Maintainer{
		cfg:          cfg,
		naming:       opts.naming,
		log:          opts.logger,
		timeProvider: opts.timeProvider,
		remove:       opts.remove,
	}, nil
}

// DeleteFailure records a stale report which could not be removed.
type DeleteFailure struct {
	Name string
	Err  error
}

// Summary describes the outcome of one maintenance pass.
type Summary struct {
	RunID       string
	Scanned     int
	Kept        int
	Deleted     []string
	Failures    []DeleteFailure
	IndexPath   string
	GeneratedAt time.Time
	DryRun      bool
}

// Run performs one scan, prune, regenerate pass.
//
// Per-file delete failures do not fail the run: they are recorded in the
// summary and the index is regenerated from the files actually remaining on
// disk. A scan failure or an index write failure is fatal, since the
// published site would otherwise be missing its landing page.
func (m Maintainer) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		IndexPath: filepath.Join(m.cfg.Dir, m.cfg.IndexName),
		DryRun:    m.cfg.DryRun,
	}
	log := m.log.With("run", summary.RunID)
	log.Debug("Starting maintenance pass", "dir", m.cfg.Dir, "maxReports", m.cfg.MaxReports, "dryRun", m.cfg.DryRun)

	// Single snapshot: prune and regenerate both work from this listing.
	reports, err := report.GetAll(log, m.cfg.Dir, m.naming)
	if err != nil {
		return summary, fmt.Errorf("failed to scan reports directory: %v", err)
	}
	summary.Scanned = len(reports)
	set := report.NewSet(log, reports)

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	kept := m.prune(log, set, &summary)
	summary.Kept = kept.Count()

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	summary.GeneratedAt = m.timeProvider.Now()
	document, err := m.renderIndex(kept, summary.GeneratedAt)
	if err != nil {
		return summary, fmt.Errorf("failed to render index document: %v", err)
	}

	if m.cfg.DryRun {
		log.Info("Dry run, not writing index document", "path", summary.IndexPath)
		return summary, nil
	}

	if err := fileutils.AtomicWrite(summary.IndexPath, document); err != nil {
		return summary, fmt.Errorf("failed to write index document %s: %v", summary.IndexPath, err)
	}

	log.Info("Maintenance pass finished",
		"scanned", summary.Scanned,
		"kept", summary.Kept,
		"deleted", len(summary.Deleted),
		"failures", len(summary.Failures))
	return summary, nil
}
