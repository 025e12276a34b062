package auth

import (
	"time"

	"github.com/HomeHarmony/HH-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r chi.Router, h *Handler) {
	// Credential endpoints are throttled per IP to slow password guessing.
	throttle := middleware.Throttle(rate.Every(time.Second), 5)

	r.Get("/signup", h.SignupPageHandler)
	r.With(throttle).Post("/signup", h.SignupHandler)
	r.Get("/login", h.LoginPageHandler)
	r.With(throttle).Post("/login", h.LoginHandler)
	r.Get("/logout", h.LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.issuer))
		r.Get("/get_account", h.AccountPageHandler)
		r.Post("/get_account", h.AccountUpdateHandler)
		r.Post("/account", h.AccountUpdateHandler)
		r.Post("/delete_acct", h.DeleteAccountHandler)
		r.Delete("/delete_acct", h.DeleteAccountHandler)
	})
}
