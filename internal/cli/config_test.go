package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/serverless-qa/report-pages/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitViperConfig(t *testing.T) {
	tests := map[string]struct {
		configContent string
		missingFile   bool
		env           map[string]string

		wantMaxReports uint
		wantDir        string
		wantErr        bool
	}{
		"Explicit config file": {
			configContent:  "max-reports: 4\n",
			wantMaxReports: 4,
		},
		"Defaults without a config file": {},
		"Environment variables are bound": {
			env:     map[string]string{"REPORT_PAGES_DIR": "/srv/reports"},
			wantDir: "/srv/reports",
		},

		"Missing explicit config file": {missingFile: true, wantErr: true},
		"Invalid config file":          {configContent: "max-reports: [broken\n", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cmd := &cobra.Command{Use: "report-pages-config-test"}
			cli.InstallConfigFlag(cmd)

			args := []string{}
			if tc.configContent != "" || tc.missingFile {
				path := filepath.Join(t.TempDir(), "report-pages.yaml")
				if !tc.missingFile {
					require.NoError(t, os.WriteFile(path, []byte(tc.configContent), 0600), "Setup: could not write config file")
				}
				args = append(args, "--config", path)
			}
			require.NoError(t, cmd.ParseFlags(args), "Setup: could not parse flags")

			vip := viper.New()
			err := cli.InitViperConfig("report-pages", cmd, vip)
			if tc.wantErr {
				require.Error(t, err, "InitViperConfig should refuse the configuration")
				return
			}
			require.NoError(t, err, "got an unexpected error")

			if tc.wantMaxReports != 0 {
				assert.Equal(t, tc.wantMaxReports, vip.GetUint("max-reports"), "config file values should be loaded")
			}
			if tc.wantDir != "" {
				assert.Equal(t, tc.wantDir, vip.GetString("dir"), "prefixed environment variables should be bound")
			}
		})
	}
}
