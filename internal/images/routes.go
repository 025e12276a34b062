package images

import (
	"github.com/HomeHarmony/HH-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(h.verifier))
		r.Get("/room_images/{id}", h.RoomImagesHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.verifier))
		r.Get("/all_images", h.AllImagesHandler)
		r.Get("/upload/{id}", h.UploadPageHandler)
		r.Post("/upload_image/{id}", h.UploadImageHandler)
		r.Get("/edit_image/{room_id}/{image_id}", h.EditImagePageHandler)
		r.Post("/edit_image/{room_id}/{image_id}", h.EditImageHandler)
		r.Get("/delete_image/{room_id}/{image_id}", h.DeleteImageHandler)
		r.Post("/delete_image/{room_id}/{image_id}", h.DeleteImageHandler)
		r.Delete("/delete_image/{room_id}/{image_id}", h.DeleteImageHandler)
	})
}
