package exchange

import (
	"context"
	"errors"

	"exchpoint/internal/adapters"
	"exchpoint/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrLimitNameUnknown = errors.New("unknown operation limit name")
	ErrThresholdInvalid = errors.New("limit threshold must be a positive decimal")
)

// CheckLimits accepts or rejects an operation against the configured
// thresholds. Both amounts are in foreign-currency units.
func CheckLimits(single, daily domain.OperationLimit, amountCurrency, todayVolume decimal.Decimal) error {
	if amountCurrency.GreaterThan(single.Threshold) {
		return domain.NewLimitExceededError(domain.LimitKindSingle,
			"operation amount %s exceeds the single operation limit %s",
			amountCurrency.StringFixed(domain.AmountScale),
			single.Threshold.StringFixed(domain.AmountScale))
	}
	if todayVolume.Add(amountCurrency).GreaterThan(daily.Threshold) {
		return domain.NewLimitExceededError(domain.LimitKindDaily,
			"operation amount %s would push today's volume %s past the daily limit %s",
			amountCurrency.StringFixed(domain.AmountScale),
			todayVolume.StringFixed(domain.AmountScale),
			daily.Threshold.StringFixed(domain.AmountScale))
	}
	return nil
}

// LimitService administers the operation limit thresholds.
type LimitService struct {
	repo adapters.LimitRepository
}

func (s *LimitService) List(ctx context.Context) ([]domain.OperationLimit, error) {
	return s.repo.List(ctx)
}

func (s *LimitService) SetThreshold(ctx context.Context, name string, threshold decimal.Decimal) (domain.OperationLimit, error) {
	if name != domain.LimitSingleOperationAmount && name != domain.LimitDailyCurrencyVolume {
		return domain.OperationLimit{}, ErrLimitNameUnknown
	}
	if !threshold.IsPositive() {
		return domain.OperationLimit{}, ErrThresholdInvalid
	}
	return s.repo.SetThreshold(ctx, name, threshold)
}

func NewLimitService(repo adapters.LimitRepository) *LimitService {
	return &LimitService{repo: repo}
}
