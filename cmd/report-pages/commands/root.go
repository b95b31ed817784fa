// Package commands contains the commands of the report-pages CLI.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/serverless-qa/report-pages/internal/categories"
	"github.com/serverless-qa/report-pages/internal/cli"
	"github.com/serverless-qa/report-pages/internal/constants"
	"github.com/serverless-qa/report-pages/internal/maintainer"
)

// App represents the application.
type App struct {
	cmd   *cobra.Command
	viper *viper.Viper

	config appConfig

	// ready is closed once the watch command finished its initial pass.
	ready         chan struct{}
	watchStop     context.CancelFunc
	watchPassHook func()
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity    int      `mapstructure:"verbose"`
	Dir          string   `mapstructure:"dir"`
	MaxReports   uint     `mapstructure:"max-reports"`
	Categories   []string `mapstructure:"categories"`
	CatalogPath  string   `mapstructure:"catalog"`
	IncludeOther bool     `mapstructure:"include-other"`
	IndexName    string   `mapstructure:"index-name"`
	DryRun       bool     `mapstructure:"dry-run"`
	Schedule     string   `mapstructure:"schedule"`
}

// New registers commands and returns a new App.
func New() (*App, error) {
	a := App{ready: make(chan struct{})}

	a.cmd = &cobra.Command{
		Use:   constants.CmdName + " [COMMAND]",
		Short: "Maintain a published set of HTML test reports",
		Long: "Report Pages maintains a directory of automatically generated HTML test reports: " +
			"it classifies reports by category, prunes each category to the most recent ones, " +
			"and regenerates the index page listing the survivors.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetVerbosity(a.config.Verbosity) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to strictly decode configuration into struct: %w", err)
			}

			cli.SetVerbosity(a.config.Verbosity)
			return nil
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	a.installUpdate()
	a.installWatch()
	a.installVersion()

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")

	cmd.PersistentFlags().StringVarP(&app.config.Dir, "dir", "d", ".", "directory holding the published reports and the index")
	cmd.PersistentFlags().UintVarP(&app.config.MaxReports, "max-reports", "n", constants.DefaultMaxReports, "number of most recent reports kept per category")
	cmd.PersistentFlags().StringSliceVar(&app.config.Categories, "categories", constants.DefaultCategories, "recognized category tokens")
	cmd.PersistentFlags().StringVar(&app.config.CatalogPath, "catalog", "", "path to a category catalog file (default: "+constants.CatalogFileName+" in the reports directory, if present)")
	cmd.PersistentFlags().BoolVar(&app.config.IncludeOther, "include-other", false, "list reports with an unrecognized category in a trailing index section")
	cmd.PersistentFlags().StringVar(&app.config.IndexName, "index-name", constants.DefaultIndexName, "name of the generated index document")

	if err := cmd.MarkPersistentFlagDirname("dir"); err != nil {
		panic(fmt.Sprintf("failed to mark dir flag as directory: %v", err))
	}
	if err := cmd.MarkPersistentFlagFilename("catalog", "toml"); err != nil {
		panic(fmt.Sprintf("failed to mark catalog flag as filename: %v", err))
	}
}

// Run executes the command and associated process, returning an error if any.
func (a *App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// WaitReady blocks until the watch command completed its initial pass.
func (a *App) WaitReady() {
	<-a.ready
}

// Quit stops a running watch command. It blocks until the command is ready.
func (a *App) Quit() {
	a.WaitReady()
	if a.watchStop != nil {
		a.watchStop()
	}
}

// RootCmd returns a copy of the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}

// newMaintainer builds a maintainer from the app configuration.
func (a App) newMaintainer() (maintainer.Maintainer, error) {
	catalog, err := a.loadCatalog()
	if err != nil {
		return maintainer.Maintainer{}, err
	}

	return maintainer.New(maintainer.Config{
		Dir:          a.config.Dir,
		MaxReports:   a.config.MaxReports,
		Catalog:      catalog,
		IncludeOther: a.config.IncludeOther,
		IndexName:    a.config.IndexName,
		DryRun:       a.config.DryRun,
	})
}

// loadCatalog returns the configured category catalog.
//
// An explicit catalog file wins; otherwise a catalog file sitting in the
// reports directory is picked up, and the category token list is the
// fallback.
func (a App) loadCatalog() (categories.Catalog, error) {
	path := a.config.CatalogPath
	if path == "" {
		candidate := filepath.Join(a.config.Dir, constants.CatalogFileName)
		if _, err := os.Stat(candidate); err == nil {
			slog.Debug("Using category catalog from reports directory", "path", candidate)
			path = candidate
		}
	}

	if path != "" {
		return categories.Load(path)
	}
	return categories.New(a.config.Categories)
}
