package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"exchpoint/internal/domain"
	"exchpoint/internal/exchange"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type LimitResponse struct {
	Name      string    `json:"name"`
	Threshold string    `json:"threshold"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toLimitResponse(l domain.OperationLimit) LimitResponse {
	return LimitResponse{
		Name:      l.Name,
		Threshold: l.Threshold.StringFixed(domain.AmountScale),
		UpdatedAt: l.UpdatedAt,
	}
}

func (h *Handler) GetLimits(w http.ResponseWriter, r *http.Request) {
	limits, err := h.limits.List(r.Context())
	if err != nil {
		msg := "could not list limits"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetLimits"}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	resp := make([]LimitResponse, 0, len(limits))
	for _, l := range limits {
		resp = append(resp, toLimitResponse(l))
	}

	writeData(w, http.StatusOK, resp)
}

type SetLimitRequest struct {
	Threshold string `json:"threshold"`
}

func (h *Handler) SetLimit(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req SetLimitRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	threshold, err := decimal.NewFromString(strings.TrimSpace(req.Threshold))
	if err != nil {
		writeError(w, http.StatusBadRequest, "threshold must be a decimal string")
		return
	}

	updated, err := h.limits.SetThreshold(r.Context(), name, threshold)
	if err != nil {
		switch {
		case errors.Is(err, exchange.ErrLimitNameUnknown), errors.Is(err, exchange.ErrThresholdInvalid):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrLimitNotFound):
			writeError(w, http.StatusNotFound, domain.ErrLimitNotFound.Error())
		default:
			msg := "could not update limit"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "SetLimit", "name": name}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}

	writeData(w, http.StatusOK, toLimitResponse(updated))
}
