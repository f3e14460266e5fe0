package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"restockplan/internal/cache"
	"restockplan/internal/domain"
	"restockplan/internal/sim"
	"restockplan/pkg/logger"
)

// maxParallelRuns bounds scenario fan-out so a large comparison does
// not spawn one goroutine per scenario unchecked.
const maxParallelRuns = 8

// SimulationService fronts the engine with result memoization. The
// engine itself is pure; caching here only avoids recomputing the same
// 400-day projection when inputs are unchanged.
type SimulationService struct {
	cache cache.SimulationCache
}

func NewSimulationService(cacheImpl cache.SimulationCache) *SimulationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSimulationCache()
	}
	return &SimulationService{cache: cacheImpl}
}

// Run returns the projection for one parameter set. A nil result with a
// nil error means there was nothing to simulate (empty batch list).
// Cache failures are logged and never surface to the caller.
func (s *SimulationService) Run(ctx context.Context, params *domain.SimulationParams) (*domain.SimulationResult, error) {
	if result, ok, err := s.cache.Get(ctx, params); err == nil && ok {
		return result, nil
	} else if err != nil {
		logger.Log.Warn().Err(err).Msg("simulation: cache get failed")
	}

	result := sim.Run(params)
	if result == nil {
		return nil, nil
	}

	if err := s.cache.Set(ctx, params, result); err != nil {
		logger.Log.Warn().Err(err).Msg("simulation: cache set failed")
	}

	return result, nil
}

// RunAll executes independent scenarios in parallel. Each run is a pure
// function of its own params, so no coordination beyond the group is
// needed. Results are returned in input order; a scenario with no
// batches yields a nil slot.
func (s *SimulationService) RunAll(ctx context.Context, scenarios []*domain.SimulationParams) ([]*domain.SimulationResult, error) {
	results := make([]*domain.SimulationResult, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRuns)

	for i, params := range scenarios {
		i, params := i, params
		g.Go(func() error {
			result, err := s.Run(ctx, params)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// InvalidateAll drops every memoized result.
func (s *SimulationService) InvalidateAll(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}
