package exchange

import (
	"context"
	"sort"
	"time"

	"exchpoint/internal/domain"

	"github.com/shopspring/decimal"
)

// AnalyticsFilter bounds and narrows an analytics query. Zero time values
// mean "apply the default"; empty CurrencyCode and OperationType mean no
// filtering on that dimension.
type AnalyticsFilter struct {
	From          time.Time
	To            time.Time
	CurrencyCode  string
	OperationType domain.OperationType
}

type CurrencySummary struct {
	Code           string
	Name           string
	OperationCount int
	VolumeCurrency decimal.Decimal
	VolumeRub      decimal.Decimal
	AverageRate    decimal.Decimal
}

type DaySummary struct {
	Day            time.Time
	OperationCount int
	VolumeRub      decimal.Decimal
}

type AnalyticsSummary struct {
	From            time.Time
	To              time.Time
	TotalOperations int
	TotalRub        decimal.Decimal
	SellCount       int
	SellRubTotal    decimal.Decimal
	BuyCount        int
	BuyRubTotal     decimal.Decimal
	Currencies      []CurrencySummary
	Days            []DaySummary
}

// Analytics aggregates non-cancelled operations over the filtered window.
// Defaults: from the start of the current month through now. The daily
// breakdown covers every calendar day in the window, zero days included.
func (s *Service) Analytics(ctx context.Context, filter AnalyticsFilter) (AnalyticsSummary, error) {
	now := s.now()
	from := filter.From
	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	to := filter.To
	if to.IsZero() {
		to = now
	} else {
		// Inclusive end date: extend to the last instant of that day.
		to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), to.Location())
	}

	records, err := s.operations.ListBetween(ctx, from, to)
	if err != nil {
		return AnalyticsSummary{}, err
	}

	summary := AnalyticsSummary{
		From:         from,
		To:           to,
		TotalRub:     decimal.Zero,
		SellRubTotal: decimal.Zero,
		BuyRubTotal:  decimal.Zero,
	}

	type currencyAccum struct {
		CurrencySummary
		rateSum decimal.Decimal
	}
	byCurrency := make(map[string]*currencyAccum)
	byDay := make(map[string]*DaySummary)

	for _, rec := range records {
		if filter.CurrencyCode != "" && rec.CurrencyCode != filter.CurrencyCode {
			continue
		}
		if filter.OperationType != "" && rec.OperationType != filter.OperationType {
			continue
		}

		summary.TotalOperations++
		summary.TotalRub = summary.TotalRub.Add(rec.AmountRub)

		switch rec.OperationType {
		case domain.ClientSellsToExchange:
			summary.SellCount++
			summary.SellRubTotal = summary.SellRubTotal.Add(rec.AmountRub)
		case domain.ClientBuysFromExchange:
			summary.BuyCount++
			summary.BuyRubTotal = summary.BuyRubTotal.Add(rec.AmountRub)
		}

		cur, ok := byCurrency[rec.CurrencyCode]
		if !ok {
			cur = &currencyAccum{CurrencySummary: CurrencySummary{
				Code:           rec.CurrencyCode,
				Name:           rec.CurrencyName,
				VolumeCurrency: decimal.Zero,
				VolumeRub:      decimal.Zero,
			}}
			byCurrency[rec.CurrencyCode] = cur
		}
		cur.OperationCount++
		cur.VolumeCurrency = cur.VolumeCurrency.Add(rec.AmountCurrency)
		cur.VolumeRub = cur.VolumeRub.Add(rec.AmountRub)
		cur.rateSum = cur.rateSum.Add(rec.EffectiveRate)

		dayKey := rec.CreatedAt.In(from.Location()).Format(time.DateOnly)
		if day, ok := byDay[dayKey]; ok {
			day.OperationCount++
			day.VolumeRub = day.VolumeRub.Add(rec.AmountRub)
		} else {
			byDay[dayKey] = &DaySummary{OperationCount: 1, VolumeRub: rec.AmountRub}
		}
	}

	for _, cur := range byCurrency {
		cur.AverageRate = cur.rateSum.DivRound(decimal.NewFromInt(int64(cur.OperationCount)), domain.RateScale)
		summary.Currencies = append(summary.Currencies, cur.CurrencySummary)
	}
	sort.Slice(summary.Currencies, func(i, j int) bool {
		return summary.Currencies[i].Code < summary.Currencies[j].Code
	})

	for day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()); !day.After(to); day = day.AddDate(0, 0, 1) {
		entry := DaySummary{Day: day, VolumeRub: decimal.Zero}
		if acc, ok := byDay[day.Format(time.DateOnly)]; ok {
			entry.OperationCount = acc.OperationCount
			entry.VolumeRub = acc.VolumeRub
		}
		summary.Days = append(summary.Days, entry)
	}

	return summary, nil
}
