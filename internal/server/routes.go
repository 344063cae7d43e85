package server

import (
	"compress/gzip"
	"net/http"

	"github.com/editionssen/bookstore/internal/handler"
	"github.com/editionssen/bookstore/internal/middleware"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func (s *Server) setupRoutes(handler *handler.Handler) {
	s.setupMiddleware()

	s.mux.Route("/api", func(r chi.Router) {
		r.Post("/user/login", http.HandlerFunc(handler.Login))
		r.Post("/user/register", http.HandlerFunc(handler.Register))

		r.Get("/books", http.HandlerFunc(handler.GetBooks))
		r.Get("/books/{slug}", http.HandlerFunc(handler.GetBook))
		r.Get("/books/{slug}/reviews", http.HandlerFunc(handler.GetBookReviews))

		r.Get("/categories", http.HandlerFunc(handler.GetCategories))
		r.Get("/categories/{slug}", http.HandlerFunc(handler.GetCategory))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			r.Post("/books/{slug}/reviews", http.HandlerFunc(handler.CreateReview))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", http.HandlerFunc(handler.GetCart))
				r.Delete("/", http.HandlerFunc(handler.ClearCart))

				r.Post("/items", http.HandlerFunc(handler.AddCartItem))
				r.Put("/items/{bookID}", http.HandlerFunc(handler.UpdateCartItem))
				r.Delete("/items/{bookID}", http.HandlerFunc(handler.RemoveCartItem))

				r.Post("/promo", http.HandlerFunc(handler.ApplyPromoCode))
				r.Delete("/promo", http.HandlerFunc(handler.RemovePromoCode))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", http.HandlerFunc(handler.Checkout))
				r.Get("/", http.HandlerFunc(handler.GetOrders))

				r.Get("/{number}", http.HandlerFunc(handler.GetOrder))
				r.Post("/{number}/cancel", http.HandlerFunc(handler.CancelOrder))
				r.Post("/{number}/pay", http.HandlerFunc(handler.PayOrder))
				r.Post("/{number}/pay/capture", http.HandlerFunc(handler.CaptureOrderPayment))
				r.Post("/{number}/refund", http.HandlerFunc(handler.RequestRefund))
			})

			r.Get("/refunds", http.HandlerFunc(handler.GetRefunds))
		})
	})
}

func (s *Server) setupMiddleware() {
	s.mux.Use(
		middleware.DecompressBodyReader,
		middleware.Logger,
		chiMiddleware.Compress(gzip.BestCompression, "application/json", "text/html", "text/plain"),
	)
}
