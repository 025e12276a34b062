package rooms

import (
	"github.com/HomeHarmony/HH-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, h *Handler) {
	// Public-readable pages: anonymous visitors see every room.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(h.verifier))
		r.Get("/", h.IndexHandler)
		r.Get("/home", h.IndexHandler)
		r.Get("/rooms", h.RoomsHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.verifier))
		r.Get("/add_room", h.AddRoomPageHandler)
		r.Post("/add_room", h.AddRoomHandler)
		r.Get("/edit_room/{id}", h.EditRoomPageHandler)
		r.Post("/edit_room/{id}", h.EditRoomHandler)
		r.Get("/confirm_delete/{id}", h.ConfirmDeleteHandler)
		r.Get("/delete_room/{id}", h.DeleteRoomHandler)
		r.Post("/delete_room/{id}", h.DeleteRoomHandler)
		r.Delete("/delete_room/{id}", h.DeleteRoomHandler)
	})
}
