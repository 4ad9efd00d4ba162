package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"exchpoint/internal/currency"
	"exchpoint/internal/domain"
)

type Handler struct {
	validator *currency.Validator
	registry  *currency.Service
}

func NewCurrencyHandler(validator *currency.Validator, registry *currency.Service) *Handler {
	return &Handler{validator: validator, registry: registry}
}

type errorResponse struct {
	Message string `json:"message"`
}

type dataResponse struct {
	Data any `json:"data"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Message: errorMsg,
	})
}

func writeData(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(dataResponse{Data: data})
}

type CurrencyResponse struct {
	ID               int64     `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	BuyRate          string    `json:"buy_rate"`
	SellRate         string    `json:"sell_rate"`
	LastRateUpdateAt time.Time `json:"last_rate_update_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toCurrencyResponse(c domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		ID:               c.ID,
		Code:             c.Code,
		Name:             c.Name,
		BuyRate:          c.BuyRate.StringFixed(domain.RateScale),
		SellRate:         c.SellRate.StringFixed(domain.RateScale),
		LastRateUpdateAt: c.LastRateUpdateAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
