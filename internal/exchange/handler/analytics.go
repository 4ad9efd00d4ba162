package handler

import (
	"net/http"
	"strings"
	"time"

	"exchpoint/internal/domain"
	"exchpoint/internal/exchange"

	"github.com/sirupsen/logrus"
)

type CurrencySummaryResponse struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	OperationCount int    `json:"operation_count"`
	VolumeCurrency string `json:"volume_currency"`
	VolumeRub      string `json:"volume_rub"`
	AverageRate    string `json:"average_rate"`
}

type DaySummaryResponse struct {
	Day            string `json:"day"`
	OperationCount int    `json:"operation_count"`
	VolumeRub      string `json:"volume_rub"`
}

type AnalyticsResponse struct {
	StartDate       time.Time                 `json:"start_date"`
	EndDate         time.Time                 `json:"end_date"`
	TotalOperations int                       `json:"total_operations"`
	TotalRub        string                    `json:"total_rub"`
	SellCount       int                       `json:"sell_count"`
	SellRubTotal    string                    `json:"sell_rub_total"`
	BuyCount        int                       `json:"buy_count"`
	BuyRubTotal     string                    `json:"buy_rub_total"`
	Currencies      []CurrencySummaryResponse `json:"currencies"`
	Days            []DaySummaryResponse      `json:"days"`
}

func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter exchange.AnalyticsFilter
	if raw := q.Get("start_date"); raw != "" {
		from, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		filter.From = from
	}
	if raw := q.Get("end_date"); raw != "" {
		to, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
		filter.To = to
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		writeError(w, http.StatusBadRequest, "end_date must not be before start_date")
		return
	}
	filter.CurrencyCode = strings.ToUpper(strings.TrimSpace(q.Get("currency_code")))
	if raw := strings.TrimSpace(q.Get("operation_type")); raw != "" {
		opType := domain.OperationType(raw)
		if !opType.Valid() {
			writeError(w, http.StatusBadRequest, "unknown operation_type")
			return
		}
		filter.OperationType = opType
	}

	summary, err := h.ledger.Analytics(r.Context(), filter)
	if err != nil {
		msg := "could not build analytics"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetAnalytics"}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	resp := AnalyticsResponse{
		StartDate:       summary.From,
		EndDate:         summary.To,
		TotalOperations: summary.TotalOperations,
		TotalRub:        summary.TotalRub.StringFixed(domain.AmountScale),
		SellCount:       summary.SellCount,
		SellRubTotal:    summary.SellRubTotal.StringFixed(domain.AmountScale),
		BuyCount:        summary.BuyCount,
		BuyRubTotal:     summary.BuyRubTotal.StringFixed(domain.AmountScale),
		Currencies:      make([]CurrencySummaryResponse, 0, len(summary.Currencies)),
		Days:            make([]DaySummaryResponse, 0, len(summary.Days)),
	}
	for _, cur := range summary.Currencies {
		resp.Currencies = append(resp.Currencies, CurrencySummaryResponse{
			Code:           cur.Code,
			Name:           cur.Name,
			OperationCount: cur.OperationCount,
			VolumeCurrency: cur.VolumeCurrency.StringFixed(domain.AmountScale),
			VolumeRub:      cur.VolumeRub.StringFixed(domain.AmountScale),
			AverageRate:    cur.AverageRate.StringFixed(domain.RateScale),
		})
	}
	for _, day := range summary.Days {
		resp.Days = append(resp.Days, DaySummaryResponse{
			Day:            day.Day.Format(time.DateOnly),
			OperationCount: day.OperationCount,
			VolumeRub:      day.VolumeRub.StringFixed(domain.AmountScale),
		})
	}

	writeData(w, http.StatusOK, resp)
}
