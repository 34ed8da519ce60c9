package main

import (
	"context"
	"fmt"
	"os"

	"notefiber-sync/internal/bootstrap"
	"notefiber-sync/internal/config"
	"notefiber-sync/internal/pkg/logger"
	"notefiber-sync/internal/store"

	"github.com/spf13/cobra"
)

var (
	verbose bool

	cfg       *config.Config
	sysLogger logger.ILogger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notesync",
	Short: "Sign in and manage your notes from the terminal",
	Long: `notesync keeps a local view of the signed-in user and their notes in step
with the identity provider and the document store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if verbose {
			sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
		} else {
			sysLogger = logger.NewIsolatedLogger(cfg.App.LogFilePath)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if sysLogger != nil {
			_ = sysLogger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also write logs to stderr")
}

// withApp builds the container, resolves the stored session and hands the
// state container to fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.Container) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := bootstrap.NewContainer(ctx, cfg, sysLogger)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Store.Run(ctx, store.InitializeSession())
	return fn(ctx, app)
}

// requireUser returns the signed-in user's id.
func requireUser(app *bootstrap.Container) (string, error) {
	user := store.Select(app.Store, store.SelectUser)
	if user == nil {
		return "", fmt.Errorf("not signed in, run `notesync login` first")
	}
	return user.Uid, nil
}
