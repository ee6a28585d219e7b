package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/mmeshcher/ucp-checkout/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса.
// requestTimeout ограничивает время обработки запросов API; поток событий WebSocket не ограничивается.
func (h *Handler) SetupRouter(requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(custommiddleware.GzipMiddleware)

	r.Handle("/ws/events", h.EventStream())

	r.Group(func(r chi.Router) {
		if requestTimeout > 0 {
			r.Use(chimiddleware.Timeout(requestTimeout))
		}

		r.Get("/health", h.Health)
		r.Get("/.well-known/ucp", h.Discovery)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/profile", h.BusinessInfo)
			r.Get("/products", h.Products)
			r.Post("/tokenize", h.Tokenize)

			r.Route("/checkout-sessions", func(r chi.Router) {
				r.Post("/", h.CreateCheckout)
				r.Get("/{id}", h.GetCheckout)
				r.Put("/{id}", h.UpdateCheckout)
				r.Post("/{id}/complete", h.CompleteCheckout)
				r.Post("/{id}/cancel", h.CancelCheckout)
			})

			r.Get("/events", h.Events)
			r.Post("/events/clear", h.ClearEvents)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
