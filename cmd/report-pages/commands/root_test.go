package commands

import (
	"testing"

	"github.com/serverless-qa/report-pages/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageError(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	// Test when SilenceUsage is true
	app.cmd.SilenceUsage = true
	assert.False(t, app.UsageError())

	// Test when SilenceUsage is false
	app.cmd.SilenceUsage = false
	assert.True(t, app.UsageError())
}

func TestRootFlags(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	testCases := []testutils.CmdTestCase{
		{
			Name:           "dir",
			Short:          "d",
			PersistentFlag: true,
			Dirname:        true,
			BaseCmd:        app.cmd,
		}, {
			Name:           "max-reports",
			Short:          "n",
			PersistentFlag: true,
			BaseCmd:        app.cmd,
		}, {
			Name:           "categories",
			PersistentFlag: true,
			BaseCmd:        app.cmd,
		}, {
			Name:           "catalog",
			PersistentFlag: true,
			BaseCmd:        app.cmd,
		}, {
			Name:           "include-other",
			PersistentFlag: true,
			BaseCmd:        app.cmd,
		}, {
			Name:           "index-name",
			PersistentFlag: true,
			BaseCmd:        app.cmd,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			testutils.FlagTestHelper(t, tc)
		})
	}
}

func TestRootCmd(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	cmd := app.RootCmd()
	assert.NotNil(t, cmd, "Returned root command should not be nil")
}
