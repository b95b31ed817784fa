package maintainer

import (
	"log/slog"

	"github.com/serverless-qa/report-pages/internal/report"
)

// prune enforces the retention policy on each recognized category and returns
// the reports remaining on disk afterwards.
//
// Only reports positively classified under a recognized category are ever
// deleted. A failed delete is logged, recorded on the summary and the report
// stays part of the returned set, since it is still on disk and the index
// must reflect that.
//
// Categories are processed in catalog order so the summary is deterministic.
func (m Maintainer) prune(log *slog.Logger, set report.Set, summary *Summary) report.Set {
	kept := make(report.Set, len(set))

	// Unrecognized category tokens are never pruning targets.
	for token, reports := range set {
		if !m.cfg.Catalog.Recognized(token) {
			log.Debug("Category not in catalog, leaving reports alone", "category", token, "reports", len(reports))
			kept[token] = reports
		}
	}

	for _, category := range m.cfg.Catalog.All() {
		reports, ok := set[category.Token]
		if !ok {
			continue
		}

		maxReports := m.cfg.MaxReports
		if category.MaxReports > 0 {
			maxReports = category.MaxReports
		}

		if uint(len(reports)) <= maxReports {
			kept[category.Token] = reports
			continue
		}

		// Reports are ordered newest first: everything past maxReports is stale.
		kept[category.Token] = reports[:maxReports]
		for _, r := range reports[maxReports:] {
			if m.cfg.DryRun {
				log.Info("Dry run, would delete stale report", "file", r.Name, "category", category.Token)
				summary.Deleted = append(summary.Deleted, r.Name)
				continue
			}

			if err := m.remove(r.Path); err != nil {
				log.Error("Failed to remove stale report", "file", r.Name, "category", category.Token, "error", err)
				summary.Failures = append(summary.Failures, DeleteFailure{Name: r.Name, Err: err})
				// Still on disk, still listed.
				kept[category.Token] = append(kept[category.Token], r)
				continue
			}

			log.Info("Removed stale report", "file", r.Name, "category", category.Token)
			summary.Deleted = append(summary.Deleted, r.Name)
		}
	}

	return kept
}
