package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
	"github.com/dealernetworks/opsboard-backend/internal/planner"
)

// newReplayCommand builds the offline replay subcommand: it loads snapshot
// fixtures from JSON files, runs a full planner pass and prints the ranked
// gap report. Useful for checking tier rules against captured data without
// a running server.
func newReplayCommand() *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "Run one planner pass over snapshot fixture files and print the gap report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "orders", Usage: "Orders snapshot JSON file"},
			&cli.StringFlag{Name: "yard", Usage: "Yard snapshot JSON file"},
			&cli.StringFlag{Name: "handovers", Usage: "Handovers snapshot JSON file"},
			&cli.StringFlag{
				Name:     "config",
				Usage:    "Configuration snapshot JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "as-of",
				Usage: "Evaluation date (YYYY-MM-DD), defaults to today",
			},
			&cli.BoolFlag{
				Name:  "fallback-all-models",
				Usage: "Evaluate tiers with no assigned models against every model",
			},
		},
		Action: runReplay,
	}
}

func runReplay(c *cli.Context) error {
	var set domain.SnapshotSet

	if path := c.String("orders"); path != "" {
		if err := loadJSON(path, &set.Orders); err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
	}
	if path := c.String("yard"); path != "" {
		if err := loadJSON(path, &set.Yard); err != nil {
			return fmt.Errorf("failed to load yard: %w", err)
		}
	}
	if path := c.String("handovers"); path != "" {
		if err := loadJSON(path, &set.Handovers); err != nil {
			return fmt.Errorf("failed to load handovers: %w", err)
		}
	}
	if err := loadJSON(c.String("config"), &set.Config); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	now := time.Now()
	if asOf := c.String("as-of"); asOf != "" {
		parsed, err := time.ParseInLocation("2006-01-02", asOf, time.Local)
		if err != nil {
			return fmt.Errorf("invalid as-of date: %w", err)
		}
		now = parsed
	}

	cfg := planner.DefaultConfig()
	outlook := planner.BuildOutlook(set, cfg, now)
	opts := planner.TierEvalOptions{FallbackAllModels: c.Bool("fallback-all-models")}
	gaps := planner.EvaluateAllTiers(outlook, set.Config.ModelTiers, set.Config.TierRules, opts)

	fmt.Printf("Outlook rows: %d\n", len(outlook))
	fmt.Printf("%-16s %-12s %-6s %-12s %10s %6s\n", "DEALER", "MODEL", "TIER", "BASIS", "REQUIRED", "GAP")
	for _, g := range gaps {
		fmt.Printf("%-16s %-12s %-6s %-12s %10s %6d\n",
			g.Dealer, g.Model, g.Tier, g.Basis, g.Required.StringFixed(1), g.Gap)
	}
	return nil
}

func loadJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
