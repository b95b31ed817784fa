package commands_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/serverless-qa/report-pages/cmd/report-pages/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchInvalidSchedule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	app := commands.NewForTests(t, "watch", "--schedule", "not a cron expression", "--dir", dir)

	err := app.Run()
	require.Error(t, err, "Run should reject an invalid cron schedule")
	assert.False(t, app.UsageError(), "invalid schedule should be a runtime error")
}

func TestWatchDebouncesBursts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	app := commands.NewForTests(t, "watch", "--dir", dir)

	passes := make(chan struct{}, 16)
	app.SetWatchPassHook(func() { passes <- struct{}{} })

	done := make(chan error, 1)
	go func() {
		done <- app.Run()
	}()
	app.WaitReady()

	select {
	case <-passes:
	case <-time.After(5 * time.Second):
		t.Fatal("initial maintenance pass did not run")
	}

	files := []string{
		"report_2024-03-01_10-00-00_personal.html",
		"report_2024-03-02_10-00-00_personal.html",
		"report_2024-03-03_10-00-00_personal.html",
	}
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<html></html>"), 0600), "Setup: could not write report")
	}

	select {
	case <-passes:
	case <-time.After(10 * time.Second):
		t.Fatal("burst of new reports did not trigger a maintenance pass")
	}

	select {
	case <-passes:
		t.Fatal("a single burst of new reports should collapse into one maintenance pass")
	case <-time.After(2 * time.Second):
	}

	app.Quit()
	select {
	case err := <-done:
		require.NoError(t, err, "Run should exit cleanly when stopped")
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop in time")
	}
}

func TestWatchPrunesArrivingReports(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	app := commands.NewForTests(t, "watch", "--max-reports=2", "--dir", dir)

	done := make(chan error, 1)
	go func() {
		done <- app.Run()
	}()
	app.WaitReady()

	// The initial pass over the empty directory already writes the index.
	indexPath := filepath.Join(dir, "index.html")
	require.FileExists(t, indexPath, "initial pass should create the index")

	files := []string{
		"report_2024-03-01_10-00-00_personal.html",
		"report_2024-03-02_10-00-00_personal.html",
		"report_2024-03-03_10-00-00_personal.html",
	}
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<html></html>"), 0600), "Setup: could not write report")
	}

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, files[0]))
		return os.IsNotExist(err)
	}, 10*time.Second, 100*time.Millisecond, "watch should prune the oldest report past retention")

	assert.FileExists(t, filepath.Join(dir, files[1]), "report within retention should survive")
	assert.FileExists(t, filepath.Join(dir, files[2]), "report within retention should survive")

	app.Quit()
	select {
	case err := <-done:
		require.NoError(t, err, "Run should exit cleanly when stopped")
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop in time")
	}
}
