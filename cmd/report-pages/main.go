// report-pages maintains a directory of published HTML test reports:
// it prunes stale reports per category and regenerates the index page.
package main

import (
	"log/slog"
	"os"

	"github.com/serverless-qa/report-pages/cmd/report-pages/commands"
)

func main() {
	a, err := commands.New()
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	os.Exit(run(a))
}

type app interface {
	Run() error
	UsageError() bool
}

func run(a app) int {
	if err := a.Run(); err != nil {
		slog.Error(err.Error())

		if a.UsageError() {
			return 2
		}
		return 1
	}

	return 0
}
