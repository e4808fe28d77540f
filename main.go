package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Shineselorm/learnlab-api/config"
	"github.com/Shineselorm/learnlab-api/logger"
	"github.com/Shineselorm/learnlab-api/routes"
)

func setup() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := config.Load(); err != nil {
		return err
	}
	logger.Init(config.Cfg.LogLevel)
	return nil
}

func main() {
	root := &cobra.Command{
		Use:   "learnlab-api",
		Short: "Learning-lab REST API: catalog, bookshelf, blog and social endpoints",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Connect(); err != nil {
				return err
			}

			addr := ":" + config.Cfg.ServerPort
			logrus.WithField("addr", addr).Info("server listening")
			return http.ListenAndServe(addr, routes.NewRouter(config.Database))
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Connect(); err != nil {
				return err
			}
			logrus.Info("migrations applied")
			return nil
		},
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Ensure the default permission groups exist and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.Open(config.Cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := config.SeedGroups(db); err != nil {
				return err
			}
			logrus.Info("groups seeded")
			return nil
		},
	}

	root.AddCommand(serve, migrate, seed)

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
