// Package catalog serves the special-charge master list: the authoritative
// default names and rates that seed billable line items on a quote.
package catalog

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/stayware/lodge-api/internal/billing"
	"github.com/stayware/lodge-api/internal/common"
)

const cacheKey = "lodge:catalog:charge-masters"

// Service orchestrates catalog reads, cache population, and admin writes.
type Service struct {
	Repo  Repo
	Cache *Cache
	Log   zerolog.Logger
}

// Masters returns the full catalog, served from cache when warm. Cache
// failures degrade to a direct read.
func (s *Service) Masters(ctx context.Context) ([]billing.ChargeMaster, error) {
	var cached []billing.ChargeMaster
	hit, err := s.Cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		s.Log.Warn().Err(err).Msg("charge master cache read failed")
	}
	if hit {
		return cached, nil
	}
	masters, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetJSON(ctx, cacheKey, masters); err != nil {
		s.Log.Warn().Err(err).Msg("charge master cache write failed")
	}
	return masters, nil
}

// Get fetches one entry by id.
func (s *Service) Get(ctx context.Context, id string) (billing.ChargeMaster, error) {
	m, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrMasterNotFound) {
		return billing.ChargeMaster{}, common.NotFound("charge master not found")
	}
	return m, err
}

// Create validates and inserts a catalog entry, then invalidates the cache.
func (s *Service) Create(ctx context.Context, in MasterInput) (billing.ChargeMaster, error) {
	if fields := common.ValidateStruct(in); fields != nil {
		return billing.ChargeMaster{}, common.ValidationFailed(fields)
	}
	m, err := s.Repo.Create(ctx, in)
	if err != nil {
		return billing.ChargeMaster{}, err
	}
	s.invalidate(ctx)
	return m, nil
}

// Update validates and replaces a catalog entry, then invalidates the cache.
func (s *Service) Update(ctx context.Context, id string, in MasterInput) (billing.ChargeMaster, error) {
	if fields := common.ValidateStruct(in); fields != nil {
		return billing.ChargeMaster{}, common.ValidationFailed(fields)
	}
	m, err := s.Repo.Update(ctx, id, in)
	if errors.Is(err, ErrMasterNotFound) {
		return billing.ChargeMaster{}, common.NotFound("charge master not found")
	}
	if err != nil {
		return billing.ChargeMaster{}, err
	}
	s.invalidate(ctx)
	return m, nil
}

// Delete removes a catalog entry, then invalidates the cache.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.Repo.Delete(ctx, id)
	if errors.Is(err, ErrMasterNotFound) {
		return common.NotFound("charge master not found")
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx, cacheKey); err != nil {
		s.Log.Warn().Err(err).Msg("charge master cache invalidation failed")
	}
}
