package currency

import (
	"context"

	"exchpoint/internal/adapters"
	"exchpoint/internal/domain"

	"github.com/shopspring/decimal"
)

// Service is the rate registry: the single authority on currency records and
// the buy/sell rates applied to operations.
type Service struct {
	repo  adapters.CurrencyRepository
	cache adapters.CurrencyCache
}

func (s *Service) Create(ctx context.Context, code, name string, buyRate, sellRate decimal.Decimal) (domain.Currency, error) {
	created, err := s.repo.Create(ctx, code, name, buyRate, sellRate)
	if err != nil {
		return domain.Currency{}, err
	}
	if s.cache != nil {
		s.cache.Set(created)
	}
	return created, nil
}

func (s *Service) UpdateRates(ctx context.Context, code string, buyRate, sellRate decimal.Decimal) (domain.Currency, error) {
	updated, err := s.repo.UpdateRates(ctx, code, buyRate, sellRate)
	if err != nil {
		return domain.Currency{}, err
	}
	if s.cache != nil {
		// Del first so a dropped Set can only cause a miss, never staleness.
		s.cache.Del(code)
		s.cache.Set(updated)
	}
	return updated, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (domain.Currency, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(code); ok {
			return cached, nil
		}
	}
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return domain.Currency{}, err
	}
	if s.cache != nil {
		s.cache.Set(c)
	}
	return c, nil
}

// GetByID bypasses the cache; it is keyed by code only.
func (s *Service) GetByID(ctx context.Context, id int64) (domain.Currency, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Currency, error) {
	return s.repo.List(ctx)
}

func NewService(repo adapters.CurrencyRepository, cache adapters.CurrencyCache) *Service {
	return &Service{repo: repo, cache: cache}
}
