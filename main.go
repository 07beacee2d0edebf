package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"mikune/cmd"
	"mikune/config"
	"mikune/database"
	"mikune/repository"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serve := newServeCmd()
	root := &cobra.Command{
		Use:          "mikune",
		Short:        "MIKUNE economy bot",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, newMigrateCmd(), newImportCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Discord bot",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}

	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, args []string) error {
				return database.MigrateUp(databaseURL())
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					parsed, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid steps %q: %w", args[0], err)
					}
					steps = parsed
				}
				return database.MigrateDown(databaseURL(), steps)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current migration version",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, args []string) error {
				version, dirty, err := database.MigrateStatus(databaseURL())
				if err != nil {
					return err
				}
				fmt.Printf("version: %d, dirty: %t\n", version, dirty)
				return nil
			},
		},
	)
	return migrate
}

func newImportCmd() *cobra.Command {
	var file string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a JSON snapshot into PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cfg := config.Get()
			cmd.ConfigureLogging(cfg)
			if file == "" {
				file = cfg.DataFile
			}

			db, err := database.NewConnection(c.Context(), cfg.GetDatabaseURL())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			count, err := repository.ImportSnapshot(c.Context(), db, repository.NewReadOnlyFileSnapshotStore(file))
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"file":     file,
				"accounts": count,
			}).Info("Import finished")
			return nil
		},
	}
	importCmd.Flags().StringVar(&file, "file", "", "snapshot file to import (defaults to DATA_FILE)")
	return importCmd
}

func databaseURL() string {
	cfg := config.Get()
	cmd.ConfigureLogging(cfg)
	return cfg.GetDatabaseURL()
}
