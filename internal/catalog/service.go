package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/menuorders-backend/pkg/logger"
	"github.com/angelmondragon/menuorders-backend/pkg/metrics"
	"github.com/angelmondragon/menuorders-backend/pkg/redis"
)

// Service exposes the addon and delivery zone catalogs.
type Service interface {
	Addons(ctx context.Context, restaurantID uuid.UUID) ([]Addon, error)
	Zones(ctx context.Context, restaurantID uuid.UUID) ([]Zone, error)
	// Load fetches both catalogs concurrently. A failing catalog degrades to
	// an empty list and is logged; Load itself never fails.
	Load(ctx context.Context, restaurantID uuid.UUID) Snapshot
}

type ServiceParams struct {
	Repo     Repository
	Cache    redis.KV
	CacheTTL time.Duration
	Logger   *logger.Logger
	Metrics  *metrics.CheckoutMetrics
}

type service struct {
	repo    Repository
	cache   *cache
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
}

// NewService builds a catalog service. Cache and Metrics are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	svc := &service{repo: params.Repo, logg: params.Logger, metrics: params.Metrics}
	if params.Cache != nil {
		svc.cache = &cache{kv: params.Cache, ttl: params.CacheTTL}
	}
	return svc, nil
}

func (s *service) Addons(ctx context.Context, restaurantID uuid.UUID) ([]Addon, error) {
	var cached []Addon
	if ok := s.fromCache(ctx, kindAddons, restaurantID, &cached); ok {
		return cached, nil
	}

	rows, err := s.repo.ListActiveAddons(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	addons := make([]Addon, 0, len(rows))
	for _, row := range rows {
		if !row.Type.IsValid() {
			continue
		}
		addons = append(addons, addonFromModel(row))
	}
	s.toCache(ctx, kindAddons, restaurantID, addons)
	return addons, nil
}

func (s *service) Zones(ctx context.Context, restaurantID uuid.UUID) ([]Zone, error) {
	var cached []Zone
	if ok := s.fromCache(ctx, kindZones, restaurantID, &cached); ok {
		return cached, nil
	}

	rows, err := s.repo.ListActiveZones(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	zones := make([]Zone, 0, len(rows))
	for _, row := range rows {
		zones = append(zones, zoneFromModel(row))
	}
	s.toCache(ctx, kindZones, restaurantID, zones)
	return zones, nil
}

func (s *service) Load(ctx context.Context, restaurantID uuid.UUID) Snapshot {
	var (
		snapshot          Snapshot
		addonErr, zoneErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snapshot.Addons, addonErr = s.Addons(gctx, restaurantID)
		return nil
	})
	g.Go(func() error {
		snapshot.Zones, zoneErr = s.Zones(gctx, restaurantID)
		return nil
	})
	_ = g.Wait()

	if addonErr != nil {
		snapshot.Addons = []Addon{}
		s.metrics.IncCatalogFailure(kindAddons)
	}
	if zoneErr != nil {
		snapshot.Zones = []Zone{}
		s.metrics.IncCatalogFailure(kindZones)
	}
	if err := multierr.Combine(addonErr, zoneErr); err != nil {
		snapshot.Degraded = true
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"restaurant_id": restaurantID.String(),
			"error":         err.Error(),
		})
		s.logg.Warn(logCtx, "catalog fetch failed, continuing with empty list")
	}
	return snapshot
}

func (s *service) fromCache(ctx context.Context, kind string, restaurantID uuid.UUID, dst any) bool {
	ok, err := s.cache.get(ctx, kind, restaurantID, dst)
	if err != nil {
		s.logg.Debug(s.logg.WithField(ctx, "catalog", kind), fmt.Sprintf("catalog cache read skipped: %v", err))
		return false
	}
	return ok
}

func (s *service) toCache(ctx context.Context, kind string, restaurantID uuid.UUID, value any) {
	if err := s.cache.set(ctx, kind, restaurantID, value); err != nil {
		s.logg.Debug(s.logg.WithField(ctx, "catalog", kind), fmt.Sprintf("catalog cache write skipped: %v", err))
	}
}
