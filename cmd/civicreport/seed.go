package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"civicreport/internal/db"
	"civicreport/internal/seed"
	"civicreport/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with sample issues",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of issues to create",
			Value:   25,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Print every created issue",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := configFromCLI(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		// Connect to database
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		if _, err := db.Migrate(ctx, pool); err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		issues, err := seed.SeedIssues(ctx, store.NewIssueRepository(pool), rng, c.Int("count"))
		if err != nil {
			return err
		}

		if c.Bool("verbose") {
			for _, issue := range issues {
				pp.Println(issue)
			}
		}

		logrus.WithField("count", len(issues)).Info("Issues seeded successfully")

		return nil
	},
}
