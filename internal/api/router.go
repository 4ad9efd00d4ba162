package api

import (
	clienthandler "exchpoint/internal/client/handler"
	currencyhandler "exchpoint/internal/currency/handler"
	exchangehandler "exchpoint/internal/exchange/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	clientHandler *clienthandler.Handler,
	currencyHandler *currencyhandler.Handler,
	exchangeHandler *exchangehandler.Handler,
) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/clients", clientHandler.CreateClient)
		r.Get("/clients", clientHandler.GetClients)
		r.Get("/clients/{id}", clientHandler.GetClientByID)

		r.Post("/currencies", currencyHandler.CreateCurrency)
		r.Get("/currencies", currencyHandler.GetCurrencies)
		r.Get("/currencies/{code:[A-Za-z]{3}}", currencyHandler.GetCurrencyByCode)
		r.Put("/currencies/{code:[A-Za-z]{3}}/rates", currencyHandler.UpdateRates)

		r.Post("/operations", exchangeHandler.CreateOperation)
		r.Get("/operations", exchangeHandler.GetOperations)
		r.Get("/operations/{id}", exchangeHandler.GetOperationByID)
		r.Patch("/operations/{id}/cancel", exchangeHandler.CancelOperation)
		r.Get("/operations/{id}/receipt", exchangeHandler.GetOperationReceipt)

		r.Get("/receipts/{reference}", exchangeHandler.GetReceiptByReference)

		r.Get("/analytics/operations", exchangeHandler.GetAnalytics)

		r.Get("/limits", exchangeHandler.GetLimits)
		r.Put("/limits/{name}", exchangeHandler.SetLimit)
	})

	return router
}
