package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dealernetworks/opsboard-backend/internal/cache"
	"github.com/dealernetworks/opsboard-backend/internal/domain"
	"github.com/dealernetworks/opsboard-backend/internal/planner"
	"github.com/dealernetworks/opsboard-backend/internal/repository"
	"github.com/dealernetworks/opsboard-backend/internal/snapshot"
	"github.com/dealernetworks/opsboard-backend/internal/storage"
)

// OutlookService owns the capture -> recompute -> serve cycle. Each hub
// change triggers one full planner pass over a consistent capture; readers
// are served the previous derived views until the pass lands, so a slow
// recompute never blanks the dashboard.
type OutlookService struct {
	hub        *snapshot.Hub
	repo       repository.ConfigRepository
	cache      cache.OutlookCache
	archive    storage.ObjectStorage
	archivePfx string
	plannerCfg planner.Config
	clock      func() time.Time

	mu         sync.RWMutex
	outlook    []domain.DealerModelOutlook
	transit    []domain.InTransitRow
	counts     planner.ProductionCounts
	config     domain.ConfigSnapshot
	meta       map[string]domain.SnapshotMeta
	computedAt time.Time
}

// NewOutlookService wires the service. archive may be nil when report
// archiving is disabled; cacheImpl falls back to a noop.
func NewOutlookService(hub *snapshot.Hub, repo repository.ConfigRepository, cacheImpl cache.OutlookCache, archive storage.ObjectStorage, archivePrefix string, plannerCfg planner.Config) *OutlookService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopOutlookCache()
	}
	return &OutlookService{
		hub:        hub,
		repo:       repo,
		cache:      cacheImpl,
		archive:    archive,
		archivePfx: archivePrefix,
		plannerCfg: plannerCfg,
		clock:      time.Now,
	}
}

// WarmLoad pulls the whole configuration store into the hub concurrently.
// Called once at startup and again after every operator write.
func (s *OutlookService) WarmLoad(ctx context.Context) error {
	var cfg domain.ConfigSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dealers, err := s.repo.GetDealers(gctx)
		cfg.Dealers = dealers
		return err
	})
	g.Go(func() error {
		rules, err := s.repo.GetTierRules(gctx)
		cfg.TierRules = rules
		return err
	})
	g.Go(func() error {
		tiers, err := s.repo.GetModelTiers(gctx)
		cfg.ModelTiers = tiers
		return err
	})
	g.Go(func() error {
		ranges, err := s.repo.GetModelRanges(gctx)
		cfg.ModelRanges = ranges
		return err
	})
	g.Go(func() error {
		targets, err := s.repo.GetRangeTargets(gctx)
		cfg.RangeTargets = targets
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load configuration store: %w", err)
	}

	s.hub.ApplyConfig(cfg)
	return nil
}

// Run reacts to hub changes until ctx is cancelled. Once cancelled no
// further derived rows are published.
func (s *OutlookService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.hub.Changes():
			s.Recompute(ctx)
		}
	}
}

// Recompute runs one full planner pass over a fresh capture and publishes
// the result. The pass clock is captured once so every window inside it
// agrees.
func (s *OutlookService) Recompute(ctx context.Context) {
	set := s.hub.Capture()
	now := s.clock()

	outlook := planner.BuildOutlook(set, s.plannerCfg, now)
	transit := planner.BuildInTransit(set, s.plannerCfg, now)
	counts := planner.CountProductionByRange(set.Orders, set.Config.ModelRanges, s.plannerCfg)

	s.mu.Lock()
	s.outlook = outlook
	s.transit = transit
	s.counts = counts
	s.config = set.Config
	s.meta = set.Meta
	s.computedAt = now
	s.mu.Unlock()

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("outlook: cache invalidation failed")
	}

	log.Info().
		Uint64("snapshot_version", set.Version).
		Int("outlook_rows", len(outlook)).
		Msg("outlook recomputed")

	s.archiveReport(ctx, set, outlook, now)
}

// Outlook returns the derived rows, optionally filtered by dealer/model.
func (s *OutlookService) Outlook(ctx context.Context, filter domain.OutlookFilter) ([]domain.DealerModelOutlook, error) {
	if rows, ok, err := s.cache.GetOutlook(ctx, filter); err == nil && ok {
		return rows, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("outlook: cache get failed")
	}

	s.mu.RLock()
	source := s.outlook
	s.mu.RUnlock()

	rows := make([]domain.DealerModelOutlook, 0, len(source))
	for _, r := range source {
		if filter.Dealer != "" && !strings.EqualFold(filter.Dealer, r.Dealer) {
			continue
		}
		if filter.Model != "" && !strings.EqualFold(filter.Model, r.Model) {
			continue
		}
		rows = append(rows, r)
	}

	if err := s.cache.SetOutlook(ctx, filter, rows); err != nil {
		log.Warn().Err(err).Msg("outlook: cache set failed")
	}
	return rows, nil
}

// GapsForTier evaluates the selected tier against the current outlook.
// fallbackAllModels is the explicit mode switch for tiers with no assigned
// models.
func (s *OutlookService) GapsForTier(ctx context.Context, tier string, fallbackAllModels bool) ([]domain.TierGapRow, error) {
	canonical, ok := domain.ParseTier(tier)
	if !ok {
		return nil, fmt.Errorf("unknown tier %q", tier)
	}

	if rows, ok, err := s.cache.GetGaps(ctx, canonical, fallbackAllModels); err == nil && ok {
		return rows, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("outlook: cache get gaps failed")
	}

	s.mu.RLock()
	outlook := s.outlook
	cfg := s.config
	s.mu.RUnlock()

	rule, ok := cfg.TierRules[canonical]
	if !ok {
		// No rule configured yet is a valid state during initial setup.
		return []domain.TierGapRow{}, nil
	}
	rows := planner.EvaluateTierGaps(outlook, cfg.ModelTiers, rule, canonical, planner.TierEvalOptions{FallbackAllModels: fallbackAllModels})
	if rows == nil {
		rows = []domain.TierGapRow{}
	}

	if err := s.cache.SetGaps(ctx, canonical, fallbackAllModels, rows); err != nil {
		log.Warn().Err(err).Msg("outlook: cache set gaps failed")
	}
	return rows, nil
}

// DebugForTier returns the unfiltered per-row evaluation for the selected
// tier, used by the troubleshooting view. Never cached.
func (s *OutlookService) DebugForTier(ctx context.Context, tier string, fallbackAllModels bool) ([]domain.TierDebugRow, error) {
	canonical, ok := domain.ParseTier(tier)
	if !ok {
		return nil, fmt.Errorf("unknown tier %q", tier)
	}

	s.mu.RLock()
	outlook := s.outlook
	cfg := s.config
	s.mu.RUnlock()

	rule, ok := cfg.TierRules[canonical]
	if !ok {
		return []domain.TierDebugRow{}, nil
	}
	rows := planner.EvaluateTierDebug(outlook, cfg.ModelTiers, rule, canonical, planner.TierEvalOptions{FallbackAllModels: fallbackAllModels})
	if rows == nil {
		rows = []domain.TierDebugRow{}
	}
	return rows, nil
}

// TargetHighlights compares active dealers against the focus range targets
// under the selected comparison mode.
func (s *OutlookService) TargetHighlights(ctx context.Context, focus []string, mode string) ([]domain.TargetComparisonRow, error) {
	canonical, ok := domain.ParseComparisonMode(mode)
	if !ok {
		return nil, fmt.Errorf("unknown comparison mode %q", mode)
	}

	s.mu.RLock()
	counts := s.counts
	cfg := s.config
	s.mu.RUnlock()

	rows := planner.EvaluateRangeTargets(counts, cfg.Dealers, cfg.RangeTargets, focus, canonical)
	if rows == nil {
		rows = []domain.TargetComparisonRow{}
	}
	return rows, nil
}

// InTransit returns dispatched units not yet seen in any yard, optionally
// filtered by dealer.
func (s *OutlookService) InTransit(ctx context.Context, dealer string) []domain.InTransitRow {
	s.mu.RLock()
	source := s.transit
	s.mu.RUnlock()

	if dealer == "" {
		return source
	}
	rows := make([]domain.InTransitRow, 0, len(source))
	for _, r := range source {
		if strings.EqualFold(dealer, r.Dealer) {
			rows = append(rows, r)
		}
	}
	return rows
}

// Status reports when the views were last recomputed and what each stream
// last delivered.
func (s *OutlookService) Status() (time.Time, map[string]domain.SnapshotMeta) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.computedAt, s.meta
}

// ArchivedReports lists the stored gap reports, newest key last.
func (s *OutlookService) ArchivedReports(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("report archive is not configured")
	}
	objects, err := s.archive.ListObjects(ctx, s.archivePfx)
	if err != nil {
		return nil, err
	}
	return objects, nil
}

// ArchivedReport fetches one stored gap report by the name returned from
// ArchivedReports.
func (s *OutlookService) ArchivedReport(ctx context.Context, name string) ([]byte, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("report archive is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "..") || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid report name %q", name)
	}
	return s.archive.GetObject(ctx, fmt.Sprintf("%s/%s", s.archivePfx, name))
}

// archiveReport uploads the recompute's gap report for every enabled tier.
// Archive failures are logged and swallowed; the archive is an audit trail,
// not a dependency.
func (s *OutlookService) archiveReport(ctx context.Context, set domain.SnapshotSet, outlook []domain.DealerModelOutlook, now time.Time) {
	if s.archive == nil {
		return
	}

	gaps := planner.EvaluateAllTiers(outlook, set.Config.ModelTiers, set.Config.TierRules, planner.TierEvalOptions{})
	report := domain.GapReport{
		ComputedAt: now,
		Tier:       "all",
		Rows:       gaps,
		Outlook:    outlook,
		Streams:    set.Meta,
	}

	payload, err := json.Marshal(report)
	if err != nil {
		log.Warn().Err(err).Msg("outlook: encode gap report failed")
		return
	}

	key := fmt.Sprintf("%s/%s.json", s.archivePfx, now.Format("20060102T150405"))
	if err := s.archive.PutObject(ctx, key, payload); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("outlook: archive gap report failed")
	}
}
