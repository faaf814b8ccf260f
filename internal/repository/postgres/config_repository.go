package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

type configRepository struct {
	db *DB
}

// NewConfigRepository returns the Postgres-backed configuration store.
func NewConfigRepository(db *DB) *configRepository {
	return &configRepository{db: db}
}

func (r *configRepository) GetDealers(ctx context.Context) ([]domain.DealerConfig, error) {
	query := `
		SELECT slug, name, active, yearly_target
		FROM dealers
		ORDER BY name
	`
	var dealers []domain.DealerConfig
	if err := r.db.SelectContext(ctx, &dealers, query); err != nil {
		return nil, fmt.Errorf("error getting dealers: %w", err)
	}
	return dealers, nil
}

func (r *configRepository) GetDealer(ctx context.Context, slug string) (*domain.DealerConfig, error) {
	query := `
		SELECT slug, name, active, yearly_target
		FROM dealers
		WHERE slug = $1
	`
	var dealer domain.DealerConfig
	if err := r.db.GetContext(ctx, &dealer, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting dealer %s: %w", slug, err)
	}
	return &dealer, nil
}

func (r *configRepository) UpsertDealer(ctx context.Context, dealer domain.DealerConfig) error {
	query := `
		INSERT INTO dealers (slug, name, active, yearly_target, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			active = EXCLUDED.active,
			yearly_target = EXCLUDED.yearly_target,
			updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, dealer.Slug, dealer.Name, dealer.Active, dealer.YearlyTarget); err != nil {
		return fmt.Errorf("error upserting dealer %s: %w", dealer.Slug, err)
	}
	return nil
}

func (r *configRepository) GetTierRules(ctx context.Context) (map[string]domain.TierRule, error) {
	query := `
		SELECT tier, handover_6m_multiplier, handover_3m_multiplier, enabled
		FROM tier_rules
	`
	var rules []domain.TierRule
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("error getting tier rules: %w", err)
	}
	out := make(map[string]domain.TierRule, len(rules))
	for _, rule := range rules {
		out[rule.Tier] = rule
	}
	return out, nil
}

func (r *configRepository) SaveTierRule(ctx context.Context, rule domain.TierRule) error {
	query := `
		INSERT INTO tier_rules (tier, handover_6m_multiplier, handover_3m_multiplier, enabled, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (tier) DO UPDATE SET
			handover_6m_multiplier = EXCLUDED.handover_6m_multiplier,
			handover_3m_multiplier = EXCLUDED.handover_3m_multiplier,
			enabled = EXCLUDED.enabled,
			updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, rule.Tier, rule.Handover6mMultiplier, rule.Handover3mMultiplier, rule.Enabled); err != nil {
		return fmt.Errorf("error saving tier rule %s: %w", rule.Tier, err)
	}
	return nil
}

func (r *configRepository) GetModelTiers(ctx context.Context) (map[string]string, error) {
	query := `SELECT model, tier FROM model_tiers`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error getting model tiers: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var model, tier string
		if err := rows.Scan(&model, &tier); err != nil {
			return nil, fmt.Errorf("error scanning model tier: %w", err)
		}
		out[model] = tier
	}
	return out, rows.Err()
}

func (r *configRepository) SaveModelTiers(ctx context.Context, assignments map[string]string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM model_tiers`); err != nil {
			return fmt.Errorf("error clearing model tiers: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO model_tiers (model, tier, created_at)
			VALUES ($1, $2, NOW())
		`)
		if err != nil {
			return fmt.Errorf("error preparing model tier insert: %w", err)
		}
		defer stmt.Close()

		for model, tier := range assignments {
			if _, err := stmt.ExecContext(ctx, model, tier); err != nil {
				return fmt.Errorf("error inserting model tier %s: %w", model, err)
			}
		}
		return nil
	})
}

func (r *configRepository) GetModelRanges(ctx context.Context) ([]domain.ModelRange, error) {
	query := `
		SELECT range_name, model
		FROM model_ranges
		ORDER BY range_name, model
	`
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error getting model ranges: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*domain.ModelRange)
	var order []string
	for rows.Next() {
		var rangeName, model string
		if err := rows.Scan(&rangeName, &model); err != nil {
			return nil, fmt.Errorf("error scanning model range: %w", err)
		}
		mr, ok := byName[rangeName]
		if !ok {
			mr = &domain.ModelRange{Name: rangeName}
			byName[rangeName] = mr
			order = append(order, rangeName)
		}
		mr.Models = append(mr.Models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.ModelRange, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out, nil
}

func (r *configRepository) GetRangeTargets(ctx context.Context) ([]domain.RangeTarget, error) {
	query := `
		SELECT range_name, target_percent
		FROM range_targets
		ORDER BY range_name
	`
	var targets []domain.RangeTarget
	if err := r.db.SelectContext(ctx, &targets, query); err != nil {
		return nil, fmt.Errorf("error getting range targets: %w", err)
	}
	return targets, nil
}

func (r *configRepository) SaveRangeTargets(ctx context.Context, targets []domain.RangeTarget) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO range_targets (range_name, target_percent, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (range_name) DO UPDATE SET
				target_percent = EXCLUDED.target_percent,
				updated_at = NOW()
		`)
		if err != nil {
			return fmt.Errorf("error preparing range target upsert: %w", err)
		}
		defer stmt.Close()

		for _, t := range targets {
			if _, err := stmt.ExecContext(ctx, t.Range, t.TargetPercent); err != nil {
				return fmt.Errorf("error saving range target %s: %w", t.Range, err)
			}
		}
		return nil
	})
}
