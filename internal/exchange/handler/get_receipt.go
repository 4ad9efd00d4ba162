package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"exchpoint/internal/domain"
	"exchpoint/internal/exchange"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// GetReceiptByReference serves the operation's receipt as a PDF document.
func (h *Handler) GetReceiptByReference(w http.ResponseWriter, r *http.Request) {
	reference := strings.TrimSpace(chi.URLParam(r, "reference"))
	if reference == "" {
		writeError(w, http.StatusBadRequest, "receipt reference is required")
		return
	}

	rec, err := h.ledger.GetReceipt(r.Context(), reference)
	if err != nil {
		if errors.Is(err, domain.ErrReceiptNotFound) {
			writeError(w, http.StatusNotFound, domain.ErrReceiptNotFound.Error())
			return
		}
		msg := "could not resolve receipt"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetReceiptByReference", "reference": reference}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	h.writeReceipt(w, rec)
}

// GetOperationReceipt serves the same PDF addressed by operation id.
func (h *Handler) GetOperationReceipt(w http.ResponseWriter, r *http.Request) {
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
		msg := "could not resolve receipt"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetOperationReceipt", "id": id}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	h.writeReceipt(w, rec)
}

func (h *Handler) writeReceipt(w http.ResponseWriter, rec domain.OperationRecord) {
	doc, err := exchange.ReceiptDocument(rec, time.Now())
	if err != nil {
		msg := "could not render receipt"
		logrus.WithError(err).WithFields(logrus.Fields{"reference": rec.ReceiptReference}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", rec.ReceiptReference+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
