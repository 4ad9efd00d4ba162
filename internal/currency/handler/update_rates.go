package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"exchpoint/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type UpdateRatesRequest struct {
	BuyRate  string `json:"buy_rate"`
	SellRate string `json:"sell_rate"`
}

func (h *Handler) UpdateRates(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	if err := h.validator.ValidateCode(code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req UpdateRatesRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	buyRate, sellRate, err := parseRates(req.BuyRate, req.SellRate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.ValidateRates(buyRate, sellRate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.registry.UpdateRates(r.Context(), code, buyRate, sellRate)
	if err != nil {
		if errors.Is(err, domain.ErrCurrencyNotFound) {
			writeError(w, http.StatusNotFound, domain.ErrCurrencyNotFound.Error())
			return
		}
		msg := "could not update rates"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "UpdateRates", "code": code}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeData(w, http.StatusOK, toCurrencyResponse(updated))
}
