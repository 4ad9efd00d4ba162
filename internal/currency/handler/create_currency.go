package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"exchpoint/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CreateCurrencyRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	BuyRate  string `json:"buy_rate"`
	SellRate string `json:"sell_rate"`
}

func (h *Handler) CreateCurrency(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CreateCurrencyRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	name := strings.TrimSpace(req.Name)

	buyRate, sellRate, err := parseRates(req.BuyRate, req.SellRate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.ValidateCreate(code, name, buyRate, sellRate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.registry.Create(r.Context(), code, name, buyRate, sellRate)
	if err != nil {
		if errors.Is(err, domain.ErrCurrencyExists) {
			writeError(w, http.StatusConflict, domain.ErrCurrencyExists.Error())
			return
		}
		msg := "could not create currency"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "CreateCurrency", "code": code}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeData(w, http.StatusCreated, toCurrencyResponse(created))
}

func parseRates(buy, sell string) (decimal.Decimal, decimal.Decimal, error) {
	buyRate, err := decimal.NewFromString(strings.TrimSpace(buy))
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, errors.New("buy_rate must be a decimal string")
	}
	sellRate, err := decimal.NewFromString(strings.TrimSpace(sell))
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, errors.New("sell_rate must be a decimal string")
	}
	return buyRate, sellRate, nil
}
