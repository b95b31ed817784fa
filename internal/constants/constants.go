// Package constants defines the constants used by report-pages.
package constants

import "log/slog"

var (
	// Version is the version of the application.
	Version = "Dev"
)

const (
	// CmdName is the name of the command line tool.
	CmdName = "report-pages"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelWarn

	// DefaultIndexName is the default name of the generated index document.
	DefaultIndexName = "index.html"

	// DefaultMaxReports is the default number of reports kept per category.
	DefaultMaxReports = 7

	// ReportPrefix is the default leading token of managed report file names.
	ReportPrefix = "report_"

	// ReportExt is the default extension of managed report files.
	ReportExt = ".html"

	// TimestampLayout is the layout used for timestamps embedded in report file names.
	// Colons are not usable in file names on every platform, so time fields use dashes.
	TimestampLayout = "2006-01-02_15-04-05"

	// DisplayTimeLayout is the layout used when rendering a report timestamp in the index.
	DisplayTimeLayout = "2006-01-02 15:04:05"

	// CatalogFileName is the name of the optional category catalog file in the reports directory.
	CatalogFileName = "categories.toml"
)

// DefaultCategories are the category tokens recognized when no catalog is configured.
var DefaultCategories = []string{"personal", "team"}
