package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"exchpoint/internal/domain"

	"github.com/sirupsen/logrus"
)

type CreateClientRequest struct {
	PassportNumber string  `json:"passport_number"`
	FullName       string  `json:"full_name"`
	PhoneNumber    *string `json:"phone_number"`
}

type ClientResponse struct {
	ID             int64     `json:"id"`
	PassportNumber string    `json:"passport_number"`
	FullName       string    `json:"full_name"`
	PhoneNumber    *string   `json:"phone_number"`
	CreatedAt      time.Time `json:"created_at"`
}

func toClientResponse(c domain.Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		PassportNumber: c.PassportNumber,
		FullName:       c.FullName,
		PhoneNumber:    c.PhoneNumber,
		CreatedAt:      c.CreatedAt,
	}
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CreateClientRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	passportNumber := strings.TrimSpace(req.PassportNumber)
	fullName := strings.TrimSpace(req.FullName)
	if err := h.validator.Validate(passportNumber, fullName); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var phoneNumber *string
	if req.PhoneNumber != nil {
		if trimmed := strings.TrimSpace(*req.PhoneNumber); trimmed != "" {
			phoneNumber = &trimmed
		}
	}

	created, err := h.service.Create(r.Context(), passportNumber, fullName, phoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrClientExists) {
			writeError(w, http.StatusConflict, domain.ErrClientExists.Error())
			return
		}
		msg := "could not create client"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "CreateClient"}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeData(w, http.StatusCreated, toClientResponse(created))
}
