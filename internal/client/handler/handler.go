package handler

import (
	"encoding/json"
	"net/http"

	"exchpoint/internal/client"
)

type Handler struct {
	validator *client.Validator
	service   *client.Service
}

func NewClientHandler(validator *client.Validator, service *client.Service) *Handler {
	return &Handler{validator: validator, service: service}
}

type errorResponse struct {
	Message string `json:"message"`
}

type dataResponse struct {
	Data any `json:"data"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Message: errorMsg,
	})
}

func writeData(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(dataResponse{Data: data})
}
