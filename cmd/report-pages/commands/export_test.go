package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// NewForTests returns a new App with the given command line arguments set.
func NewForTests(t *testing.T, args ...string) *App {
	t.Helper()

	app, err := New()
	require.NoError(t, err, "Setup: could not create app")
	app.cmd.SetArgs(args)

	return app
}

// SetWatchPassHook registers f to run after every watch maintenance pass.
func (a *App) SetWatchPassHook(f func()) {
	a.watchPassHook = f
}
