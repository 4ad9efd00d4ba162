package handler

import (
	"errors"
	"net/http"
	"strconv"

	"exchpoint/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func (h *Handler) CancelOperation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "operation id must be an integer")
		return
	}

	rec, err := h.ledger.CancelOperation(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOperationNotFound):
			writeError(w, http.StatusNotFound, domain.ErrOperationNotFound.Error())
		case errors.Is(err, domain.ErrOperationCancelled):
			writeError(w, http.StatusConflict, domain.ErrOperationCancelled.Error())
		default:
			msg := "could not cancel operation"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "CancelOperation", "id": id}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}

	writeData(w, http.StatusOK, toOperationResponse(rec))
}
