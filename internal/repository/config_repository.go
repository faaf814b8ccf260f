// internal/repository/config_repository.go
package repository

import (
	"context"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

// ConfigRepository is the read/write contract of the configuration store.
// The planner only ever reads; writes come from the operator API and are
// observed by the core as a fresh configuration snapshot.
type ConfigRepository interface {
	GetDealers(ctx context.Context) ([]domain.DealerConfig, error)
	GetDealer(ctx context.Context, slug string) (*domain.DealerConfig, error)
	UpsertDealer(ctx context.Context, dealer domain.DealerConfig) error

	GetTierRules(ctx context.Context) (map[string]domain.TierRule, error)
	SaveTierRule(ctx context.Context, rule domain.TierRule) error

	GetModelTiers(ctx context.Context) (map[string]string, error)
	SaveModelTiers(ctx context.Context, assignments map[string]string) error

	GetModelRanges(ctx context.Context) ([]domain.ModelRange, error)
	GetRangeTargets(ctx context.Context) ([]domain.RangeTarget, error)
	SaveRangeTargets(ctx context.Context, targets []domain.RangeTarget) error
}
