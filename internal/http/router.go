package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/teller/internal/http/account"
	"github.com/MrJamesThe3rd/teller/internal/http/transfers"
)

func New(
	accountsV1 *account.Handler,
	transfersV1 *transfers.Handler,
	authMiddleware func(http.Handler) http.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		r.Route("/banks/{bank}", accountsV1.PublicRoutes)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Route("/account", accountsV1.SessionRoutes)
			r.Route("/transfers", transfersV1.Routes)
		})
	})

	return router
}
