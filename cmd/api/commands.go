package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yigit/sectionhub/internal/bootstrap"
	"github.com/yigit/sectionhub/internal/db"
	"github.com/yigit/sectionhub/internal/server"
)

// Overridden at build time with -ldflags "-X main.version=..."
var (
	appName = "sectionhub"
	version = "1.0.0"
)

const configFlag = "config"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Student and section management API",
		Long: `REST API for managing students, sections and enrollments with role-based access control.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().String(configFlag, "configs/config.yaml", "Path to the YAML configuration file")

	root.AddCommand(newServeCommand(), newMigrateCommand(), newVersionCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate, seed and run the HTTP server",
		RunE:  runServe,
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations and seed default data, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString(configFlag)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
			if err != nil {
				return err
			}

			database, err := db.NewPostgresDB(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			return bootstrap.MigrateAndSeed(ctx, database, cfg, lgr)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the name and version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
		},
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	srv, err := server.NewServer(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	return srv.Run()
}
