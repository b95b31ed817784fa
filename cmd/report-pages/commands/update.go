package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func (a *App) installUpdate() {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Run one maintenance pass over the reports directory",
		Long: "Update scans the reports directory once, deletes reports that fall outside " +
			"the retention window of their category, and regenerates the index page.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Running update command")
			return a.updateRun(cmd)
		},
	}

	updateCmd.Flags().BoolVar(&a.config.DryRun, "dry-run", false, "log what would be deleted and written without touching anything")

	a.cmd.AddCommand(updateCmd)
}

func (a *App) updateRun(cmd *cobra.Command) error {
	m, err := a.newMaintainer()
	if err != nil {
		return fmt.Errorf("failed to create maintainer: %v", err)
	}

	summary, err := m.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("maintenance pass failed: %v", err)
	}

	// Partial delete failures do not fail the run, but they are surfaced.
	for _, failure := range summary.Failures {
		slog.Warn("Stale report could not be removed", "file", failure.Name, "error", failure.Err)
	}

	return nil
}
