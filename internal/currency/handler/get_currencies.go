package handler

import (
	"errors"
	"net/http"
	"strings"

	"exchpoint/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func (h *Handler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.registry.List(r.Context())
	if err != nil {
		msg := "could not list currencies"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetCurrencies"}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	resp := make([]CurrencyResponse, 0, len(currencies))
	for _, c := range currencies {
		resp = append(resp, toCurrencyResponse(c))
	}

	writeData(w, http.StatusOK, resp)
}

// GetCurrencyByCode relies on the route pattern to constrain the code shape.
func (h *Handler) GetCurrencyByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))

	c, err := h.registry.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrCurrencyNotFound) {
			writeError(w, http.StatusNotFound, domain.ErrCurrencyNotFound.Error())
			return
		}
		msg := "could not get currency"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetCurrencyByCode", "code": code}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeData(w, http.StatusOK, toCurrencyResponse(c))
}
