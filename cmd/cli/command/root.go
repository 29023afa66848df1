package command

// root.go defines the root command for yamdbctl and the shared setup its
// subcommands need: configuration, logging and the database handle.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/logger"
)

var (
	envFile string // optional .env path
	verbose bool   // log to stderr while running

	cfg *config.Config
	log *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yamdbctl",
	Short: "yamdbctl - YaMDb administration tool",
	Long: `yamdbctl runs operator tasks against the YaMDb database:
- apply or roll back schema migrations
- create the first administrator
- issue a confirmation code for an existing user

It reads the same environment (or .env file) as the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			// values already in the environment win, as with the default .env
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
		}
		loaded, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		if verbose {
			log = logger.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		} else {
			log = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(migrateCmd, createAdminCmd, issueCodeCmd)
}

func openDB(ctx context.Context) (*gorm.DB, func(), error) {
	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}

func success(format string, a ...any) {
	color.Green("✓ "+format, a...)
}
