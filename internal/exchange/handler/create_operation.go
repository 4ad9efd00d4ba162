package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"exchpoint/internal/domain"
	"exchpoint/internal/exchange"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CreateOperationRequest struct {
	ClientID      int64  `json:"client_id"`
	CurrencyID    int64  `json:"currency_id"`
	OperationType string `json:"operation_type"`
	Amount        string `json:"amount"`
}

func (h *Handler) CreateOperation(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CreateOperationRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a decimal string")
		return
	}

	created, err := h.ledger.CreateOperation(r.Context(), req.ClientID, req.CurrencyID, domain.OperationType(req.OperationType), amount)
	if err != nil {
		var limitErr *domain.LimitExceededError
		switch {
		case errors.Is(err, exchange.ErrOperationTypeInvalid),
			errors.Is(err, exchange.ErrAmountNotPositive),
			errors.Is(err, exchange.ErrBaseCurrencyTrade):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrClientNotFound):
			writeError(w, http.StatusNotFound, domain.ErrClientNotFound.Error())
		case errors.Is(err, domain.ErrCurrencyNotFound):
			writeError(w, http.StatusNotFound, domain.ErrCurrencyNotFound.Error())
		case errors.As(err, &limitErr):
			writeError(w, http.StatusForbidden, limitErr.Message)
		case errors.Is(err, domain.ErrTxLockTimeout):
			writeError(w, http.StatusServiceUnavailable, domain.ErrTxLockTimeout.Error())
		default:
			msg := "could not create operation"
			logrus.WithError(err).WithFields(logrus.Fields{
				"handler":   "CreateOperation",
				"client_id": req.ClientID,
			}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}

	writeData(w, http.StatusCreated, toOperationResponse(created))
}
