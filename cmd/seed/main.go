package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing configuration seed CSVs",
		Value:   "./data/seeds",
		EnvVars: []string{"SEED_DATA_DIR"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the configuration store with dealers, tier rules and targets",
		Commands: []*cli.Command{
			{
				Name:   "dealers",
				Usage:  "Seed the dealer network from dealers.csv",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: withTx(seedDealers),
			},
			{
				Name:   "tiers",
				Usage:  "Seed tier rules and model tier assignments",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: withTx(seedTiers),
			},
			{
				Name:   "targets",
				Usage:  "Seed model ranges and range production targets",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: withTx(seedTargets),
			},
			{
				Name:  "all",
				Usage: "Seed the whole configuration store",
				Flags: []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: withTx(func(ctx context.Context, tx *sql.Tx, dataDir string) error {
					if err := seedDealers(ctx, tx, dataDir); err != nil {
						return err
					}
					if err := seedTiers(ctx, tx, dataDir); err != nil {
						return err
					}
					return seedTargets(ctx, tx, dataDir)
				}),
			},
			newReplayCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withTx opens the database, runs the seeder inside one transaction and
// commits only when every row landed.
func withTx(seeder func(ctx context.Context, tx *sql.Tx, dataDir string) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, err := sql.Open("pgx", c.String("db-url"))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		ctx := c.Context
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		log.Println("Starting configuration seeding...")
		if err := seeder(ctx, tx, c.String("data-dir")); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		log.Println("Configuration seeding completed successfully!")
		return nil
	}
}

func seedDealers(ctx context.Context, tx *sql.Tx, dataDir string) error {
	return eachCSVRow(filepath.Join(dataDir, "dealers.csv"), func(header map[string]int, record []string) error {
		active, _ := strconv.ParseBool(field(header, record, "active"))
		target, _ := strconv.Atoi(field(header, record, "yearly_target"))

		_, err := tx.ExecContext(ctx, `
			INSERT INTO dealers (slug, name, active, yearly_target)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (slug) DO UPDATE SET
				name = EXCLUDED.name,
				active = EXCLUDED.active,
				yearly_target = EXCLUDED.yearly_target
		`, field(header, record, "slug"), field(header, record, "name"), active, target)
		return err
	})
}

func seedTiers(ctx context.Context, tx *sql.Tx, dataDir string) error {
	err := eachCSVRow(filepath.Join(dataDir, "tier_rules.csv"), func(header map[string]int, record []string) error {
		enabled, _ := strconv.ParseBool(field(header, record, "enabled"))

		_, err := tx.ExecContext(ctx, `
			INSERT INTO tier_rules (tier, handover_6m_multiplier, handover_3m_multiplier, enabled)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (tier) DO UPDATE SET
				handover_6m_multiplier = EXCLUDED.handover_6m_multiplier,
				handover_3m_multiplier = EXCLUDED.handover_3m_multiplier,
				enabled = EXCLUDED.enabled
		`, field(header, record, "tier"),
			field(header, record, "handover_6m_multiplier"),
			field(header, record, "handover_3m_multiplier"),
			enabled)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to seed tier rules: %w", err)
	}

	err = eachCSVRow(filepath.Join(dataDir, "model_tiers.csv"), func(header map[string]int, record []string) error {
		model := strings.ToLower(strings.TrimSpace(field(header, record, "model")))
		_, err := tx.ExecContext(ctx, `
			INSERT INTO model_tiers (model, tier)
			VALUES ($1, $2)
			ON CONFLICT (model) DO UPDATE SET tier = EXCLUDED.tier
		`, model, field(header, record, "tier"))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to seed model tiers: %w", err)
	}
	return nil
}

func seedTargets(ctx context.Context, tx *sql.Tx, dataDir string) error {
	err := eachCSVRow(filepath.Join(dataDir, "model_ranges.csv"), func(header map[string]int, record []string) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO model_ranges (range_name, model)
			VALUES ($1, $2)
			ON CONFLICT (range_name, model) DO NOTHING
		`, field(header, record, "range_name"), field(header, record, "model"))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to seed model ranges: %w", err)
	}

	err = eachCSVRow(filepath.Join(dataDir, "range_targets.csv"), func(header map[string]int, record []string) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO range_targets (range_name, target_percent)
			VALUES ($1, $2)
			ON CONFLICT (range_name) DO UPDATE SET target_percent = EXCLUDED.target_percent
		`, field(header, record, "range_name"), field(header, record, "target_percent"))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to seed range targets: %w", err)
	}
	return nil
}

func eachCSVRow(filePath string, fn func(header map[string]int, record []string) error) error {
	log.Printf("Seeding from %s\n", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	headerRow, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.TrimSpace(strings.ToLower(name))] = i
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}
		if err := fn(header, record); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}
	return nil
}

func field(header map[string]int, record []string, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
