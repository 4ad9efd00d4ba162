package handler

import (
	"errors"
	"net/http"
	"strconv"

	"exchpoint/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func (h *Handler) GetOperations(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt32(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	pageSize, err := queryInt32(r, "page_size", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page_size must be a positive integer")
		return
	}

	records, err := h.ledger.ListOperations(r.Context(), page, pageSize)
	if err != nil {
		msg := "could not list operations"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetOperations"}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	resp := make([]OperationResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toOperationResponse(rec))
	}

	writeData(w, http.StatusOK, resp)
}

func (h *Handler) GetOperationByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "operation id must be an integer")
		return
	}

	rec, err := h.ledger.GetOperation(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOperationNotFound) {
			writeError(w, http.StatusNotFound, domain.ErrOperationNotFound.Error())
			return
		}
		msg := "could not get operation"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetOperationByID", "id": id}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeData(w, http.StatusOK, toOperationResponse(rec))
}

func queryInt32(r *http.Request, name string, fallback int32) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return 0, errors.New("invalid " + name)
	}
	return int32(v), nil
}
