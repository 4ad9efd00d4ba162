package currency

import (
	"context"
	"fmt"

	"exchpoint/internal/adapters"
	"exchpoint/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const bpsDenominator = 10000

// RefreshRates pulls current market quotes and rewrites buy/sell rates for
// every registered currency. The external API quotes how much of each
// currency one RUB buys, so the mid rate in RUB per unit is the inverse.
// Buy sits below mid and sell above it by the configured spread.
func RefreshRates(ctx context.Context, execID string, registry *Service, rateClient adapters.RatesClient, spreadBps int64) error {
	currencies, err := registry.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list currencies: %w", err)
	}
	if len(currencies) == 0 {
		logrus.Infof("No currencies to refresh this time; execID: %s", execID)
		return nil
	}

	quotes, err := rateClient.GetExchangeRates(ctx, domain.BaseCurrencyCode)
	if err != nil {
		return fmt.Errorf("failed to fetch market quotes: %w", err)
	}

	spread := decimal.NewFromInt(spreadBps).Div(decimal.NewFromInt(bpsDenominator))
	one := decimal.NewFromInt(1)

	countUpdated := 0
	for _, c := range currencies {
		quote, ok := quotes[c.Code]
		if !ok || !quote.IsPositive() {
			logrus.Warnf("Skipping refresh for '%s', no usable market quote", c.Code)
			continue
		}

		mid := one.DivRound(quote, domain.RateScale)
		buyRate := mid.Mul(one.Sub(spread)).Round(domain.RateScale)
		sellRate := mid.Mul(one.Add(spread)).Round(domain.RateScale)

		if _, err = registry.UpdateRates(ctx, c.Code, buyRate, sellRate); err != nil {
			logrus.WithError(err).Warnf("Failed to refresh rates for '%s', it'll be retried next run", c.Code)
			continue
		}
		countUpdated++
	}

	logrus.Infof("%d of %d currencies were refreshed; execID: %s", countUpdated, len(currencies), execID)
	return nil
}
