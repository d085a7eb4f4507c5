package router

import (
	"net/http"

	"derinfoods/internal/handler"
	"derinfoods/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Health       *handler.HealthHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	Payment      *handler.PaymentHandler
	User         *handler.UserHandler
	Notification *handler.NotificationHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, auth *middleware.JWTAuthenticator, allowedOrigins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(auth.Authenticate)

	r.Get("/health", h.Health.Check)

	r.Route("/api", func(r chi.Router) {
		// Public catalogue.
		r.Get("/products", h.Product.List)
		r.Get("/products/{id}", h.Product.GetByID)

		// Accounts.
		r.Post("/users/register", h.User.Register)
		r.Post("/users/login", h.User.Login)
		r.With(middleware.RequireAuth).Get("/users/me", h.User.Profile)

		// Orders. Creation and reads allow guests; guest identity rides
		// on the request itself.
		r.Post("/orders", h.Order.Create)
		r.Get("/orders/myorders", h.Order.ListMine)
		r.Get("/orders/{id}", h.Order.GetByID)
		r.Put("/orders/{id}/cancel", h.Order.Cancel)

		// Payment reconciliation. The verify endpoint is public: guests
		// returning from the payment page hold nothing but the reference.
		r.Get("/payments/verify/{reference}", h.Payment.Verify)
		r.Post("/payments/webhook", h.Payment.Webhook)

		// Admin surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/products", h.Product.Create)
			r.Put("/products/{id}", h.Product.Update)
			r.Put("/products/{id}/stock", h.Product.AdjustStock)
			r.Delete("/products/{id}", h.Product.Delete)
			r.Get("/admin/products/{id}", h.Product.AdminGetByID)

			r.Get("/orders", h.Order.ListAll)
			r.Put("/orders/{id}/pay", h.Order.MarkPaid)
			r.Put("/orders/{id}/deliver", h.Order.MarkDelivered)

			r.Get("/notifications", h.Notification.List)
			r.Put("/notifications/{id}/read", h.Notification.MarkRead)
			r.Delete("/notifications/{id}", h.Notification.Delete)
		})
	})

	return r
}
