package handler

import (
	"errors"
	"net/http"
	"strconv"

	"exchpoint/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func (h *Handler) GetClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.List(r.Context())
	if err != nil {
		msg := "could not retrieve clients"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetClients"}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	res := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		res = append(res, toClientResponse(c))
	}
	writeData(w, http.StatusOK, res)
}

func (h *Handler) GetClientByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid client ID format")
		return
	}

	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, domain.ErrClientNotFound.Error())
			return
		}
		msg := "could not retrieve client"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetClientByID", "client_id": id}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeData(w, http.StatusOK, toClientResponse(c))
}
