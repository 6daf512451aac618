package main

import (
	"context"
	"fmt"

	"civicreport/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Apply the embedded database migrations",
	Action: func(c *cli.Context) error {
		cfg, err := configFromCLI(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		applied, err := db.Migrate(ctx, pool)
		if err != nil {
			return err
		}

		if len(applied) == 0 {
			logrus.Info("Schema is up to date")
			return nil
		}

		for _, name := range applied {
			logrus.WithField("migration", name).Info("Applied migration")
		}

		return nil
	},
}
