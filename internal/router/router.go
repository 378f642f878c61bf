package router

import (
	"net/http"

	"jerseylab-api/internal/config"
	"jerseylab-api/internal/handler"
	"jerseylab-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	checkoutHandler *handler.CheckoutHandler,
	webhookHandler *handler.WebhookHandler,
	promoHandler *handler.PromoHandler,
	catalogHandler *handler.CatalogHandler,
	inquiryHandler *handler.InquiryHandler,
	adminHandler *handler.AdminHandler,
	cfg *config.Config,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status": "healthy"}`))
		})

		// Storefront
		r.Get("/categories", catalogHandler.ListCategories)
		r.Get("/categories/key/{key}", catalogHandler.GetCategory)
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)

		r.Post("/promo-codes/validate", promoHandler.Validate)

		r.Post("/payments/create-intent", checkoutHandler.CreateIntent)
		r.Post("/webhooks/stripe", webhookHandler.Handle)

		r.Post("/orders", checkoutHandler.CreateOrder)
		r.Get("/orders", checkoutHandler.ListOrders)
		r.Get("/orders/{orderNumber}", checkoutHandler.GetOrder)

		r.Post("/teamwear-inquiries", inquiryHandler.Create)

		// Back office
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)
			r.Post("/forgot-password", adminHandler.ForgotPassword)
			r.Post("/reset-password", adminHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(cfg.Auth.JWTSecret, logger))

				r.Get("/orders", checkoutHandler.ListAllOrders)
				r.Put("/orders/{id}/status", checkoutHandler.UpdateOrderStatus)

				r.Get("/promo-codes", promoHandler.List)
				r.Post("/promo-codes", promoHandler.Create)
				r.Put("/promo-codes/{id}", promoHandler.Update)
				r.Delete("/promo-codes/{id}", promoHandler.Delete)

				r.Put("/categories/{id}", catalogHandler.UpdateCategory)

				r.Get("/teamwear-inquiries", inquiryHandler.List)
				r.Put("/teamwear-inquiries/{id}", inquiryHandler.Update)

				r.Get("/admins", adminHandler.List)
				r.Post("/admins", adminHandler.Create)
				r.Delete("/admins/{id}", adminHandler.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "Not found"}`))
	})

	return r
}
