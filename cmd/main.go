package main

import (
	"os"

	"emergency-referral/cmd/bootstrap"
	"emergency-referral/config"
	"emergency-referral/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "emergency-referral",
		Short: "Emergency referral coordination service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Initialize application with all dependencies
	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	// Run the application
	app.Run()
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrap.SetupLogger()
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return database.MigrateUp(cfg.DB)
		},
	})

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")

			bootstrap.SetupLogger()
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return database.MigrateDown(cfg.DB, steps)
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(downCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create default roles, reference data and one user per role",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")

			bootstrap.SetupLogger()
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			return database.Seed(db, logrus.StandardLogger(), password)
		},
	}
	cmd.Flags().String("password", "ChangeMe123!", "Password for the seeded users")
	return cmd
}
