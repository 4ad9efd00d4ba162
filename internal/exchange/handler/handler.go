package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"exchpoint/internal/domain"
	"exchpoint/internal/exchange"
)

type Handler struct {
	ledger *exchange.Service
	limits *exchange.LimitService
}

func NewExchangeHandler(ledger *exchange.Service, limits *exchange.LimitService) *Handler {
	return &Handler{ledger: ledger, limits: limits}
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

type OperationResponse struct {
	ID               int64      `json:"id"`
	ClientID         int64      `json:"client_id"`
	ClientName       string     `json:"client_name"`
	ClientPassport   string     `json:"client_passport_number"`
	CurrencyID       int64      `json:"currency_id"`
	CurrencyCode     string     `json:"currency_code"`
	OperationType    string     `json:"operation_type"`
	AmountCurrency   string     `json:"amount_currency"`
	AmountRub        string     `json:"amount_rub"`
	EffectiveRate    string     `json:"effective_rate"`
	ReceiptReference string     `json:"receipt_reference"`
	Cancelled        bool       `json:"cancelled"`
	CancelledAt      *time.Time `json:"cancelled_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toOperationResponse(rec domain.OperationRecord) OperationResponse {
	return OperationResponse{
		ID:               rec.ID,
		ClientID:         rec.ClientID,
		ClientName:       rec.ClientName,
		ClientPassport:   rec.ClientPassportNumber,
		CurrencyID:       rec.CurrencyID,
		CurrencyCode:     rec.CurrencyCode,
		OperationType:    string(rec.OperationType),
		AmountCurrency:   rec.AmountCurrency.StringFixed(domain.AmountScale),
		AmountRub:        rec.AmountRub.StringFixed(domain.AmountScale),
		EffectiveRate:    rec.EffectiveRate.StringFixed(domain.RateScale),
		ReceiptReference: rec.ReceiptReference,
		Cancelled:        rec.Cancelled(),
		CancelledAt:      rec.CancelledAt,
		CreatedAt:        rec.CreatedAt,
	}
}
