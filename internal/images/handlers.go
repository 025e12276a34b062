package images

import (
	"encoding/base64"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/HomeHarmony/HH-Backend/internal/middleware"
	"github.com/HomeHarmony/HH-Backend/internal/rooms"
	"github.com/HomeHarmony/HH-Backend/internal/utils"
	"github.com/HomeHarmony/HH-Backend/internal/web"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxUploadBytes = 10 << 20 // 10 MiB
	maxTitleLen    = 120
)

type Handler struct {
	store     *Store
	roomStore *rooms.Store
	rd        *web.Renderer
	verifier  middleware.TokenVerifier
}

func NewHandler(store *Store, roomStore *rooms.Store, rd *web.Renderer, verifier middleware.TokenVerifier) *Handler {
	return &Handler{store: store, roomStore: roomStore, rd: rd, verifier: verifier}
}

type imageView struct {
	ImageID     string
	Title       string
	Description string
	DataURI     template.URL
}

type roomImagesPage struct {
	Username string
	Room     *rooms.Room
	Images   []imageView
	Owner    bool
}

type uploadPage struct {
	Username string
	Room     *rooms.Room
	Error    string
}

type allImageView struct {
	ImageID     string
	Title       string
	Description string
	RoomID      string
	RoomName    string
	DataURI     template.URL
}

type allImagesPage struct {
	Username string
	Images   []allImageView
}

type editImagePage struct {
	Username string
	Image    *Image
	DataURI  template.URL
	Error    string
}

// dataURI base64-encodes the stored bytes for inline embedding. The store
// returns raw bytes; encoding is presentation-layer work.
func dataURI(mimeType string, data []byte) template.URL {
	return template.URL("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// ownedRoom loads the room from the {id} route param and enforces ownership,
// writing the error response itself on failure.
func (h *Handler) ownedRoom(w http.ResponseWriter, r *http.Request, param string) (*rooms.Room, string, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, "", false
	}
	username, _ := utils.GetUsernameFromContext(r.Context())

	room, err := h.roomStore.GetByID(chi.URLParam(r, param))
	if err != nil {
		if errors.Is(err, rooms.ErrNotFound) {
			http.Error(w, "Room not found", http.StatusNotFound)
			return nil, "", false
		}
		log.Println("room lookup:", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return nil, "", false
	}
	if room.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, "", false
	}
	return room, username, true
}

func (h *Handler) UploadPageHandler(w http.ResponseWriter, r *http.Request) {
	room, username, ok := h.ownedRoom(w, r, "id")
	if !ok {
		return
	}
	h.rd.Render(w, http.StatusOK, "upload.html", uploadPage{Username: username, Room: room})
}

func (h *Handler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	room, username, ok := h.ownedRoom(w, r, "id")
	if !ok {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Upload too large or malformed", http.StatusBadRequest)
		return
	}

	page := uploadPage{Username: username, Room: room}

	title := r.PostFormValue("image_name")
	if title == "" || len(title) > maxTitleLen {
		page.Error = "Title is required and must be at most 120 characters"
		h.rd.Render(w, http.StatusBadRequest, "upload.html", page)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		page.Error = "An image file is required"
		h.rd.Render(w, http.StatusBadRequest, "upload.html", page)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Println("upload read:", err)
		http.Error(w, "Failed to read upload", http.StatusInternalServerError)
		return
	}

	// Type is taken from the bytes, never from the filename.
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		page.Error = "Uploaded file is not an image"
		h.rd.Render(w, http.StatusBadRequest, "upload.html", page)
		return
	}

	img := &Image{
		ImageID:     uuid.NewString(),
		Title:       title,
		Description: r.PostFormValue("image_desc"),
		MimeType:    mtype.String(),
		Data:        data,
		UserID:      userID,
		RoomID:      room.RoomID,
	}
	if err := h.store.Insert(img); err != nil {
		log.Println("upload insert:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/room_images/"+room.RoomID, http.StatusSeeOther)
}

// RoomImagesHandler is public-readable: anyone can view a room's photos, but
// edit/delete links only render for the owner.
func (h *Handler) RoomImagesHandler(w http.ResponseWriter, r *http.Request) {
	username, _ := utils.GetUsernameFromContext(r.Context())
	userID, _ := utils.GetUserIDFromContext(r.Context())

	room, err := h.roomStore.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, rooms.ErrNotFound) {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}
		log.Println("room images:", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	imgs, err := h.store.ListByRoom(room.RoomID)
	if err != nil {
		log.Println("room images:", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	page := roomImagesPage{
		Username: username,
		Room:     room,
		Owner:    userID != "" && userID == room.UserID,
	}
	for _, img := range imgs {
		page.Images = append(page.Images, imageView{
			ImageID:     img.ImageID,
			Title:       img.Title,
			Description: img.Description,
			DataURI:     dataURI(img.MimeType, img.Data),
		})
	}

	h.rd.Render(w, http.StatusOK, "room_images.html", page)
}

func (h *Handler) AllImagesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	username, _ := utils.GetUsernameFromContext(r.Context())

	rows, err := h.store.ListWithRoomName(userID)
	if err != nil {
		log.Println("all images:", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	page := allImagesPage{Username: username}
	for _, row := range rows {
		page.Images = append(page.Images, allImageView{
			ImageID:     row.ImageID,
			Title:       row.Title,
			Description: row.Description,
			RoomID:      row.RoomID,
			RoomName:    row.RoomName,
			DataURI:     dataURI(row.MimeType, row.Data),
		})
	}

	h.rd.Render(w, http.StatusOK, "all_images.html", page)
}

// ownedImage loads the image from the route params and enforces ownership and
// room membership.
func (h *Handler) ownedImage(w http.ResponseWriter, r *http.Request) (*Image, string, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, "", false
	}
	username, _ := utils.GetUsernameFromContext(r.Context())

	img, err := h.store.GetByID(chi.URLParam(r, "image_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Image not found", http.StatusNotFound)
			return nil, "", false
		}
		log.Println("image lookup:", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return nil, "", false
	}
	if img.RoomID != chi.URLParam(r, "room_id") {
		http.Error(w, "Image not found", http.StatusNotFound)
		return nil, "", false
	}
	if img.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, "", false
	}
	return img, username, true
}

func (h *Handler) EditImagePageHandler(w http.ResponseWriter, r *http.Request) {
	img, username, ok := h.ownedImage(w, r)
	if !ok {
		return
	}
	h.rd.Render(w, http.StatusOK, "edit_image.html", editImagePage{
		Username: username,
		Image:    img,
		DataURI:  dataURI(img.MimeType, img.Data),
	})
}

func (h *Handler) EditImageHandler(w http.ResponseWriter, r *http.Request) {
	img, username, ok := h.ownedImage(w, r)
	if !ok {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	title := r.PostFormValue("image_name")
	if title == "" || len(title) > maxTitleLen {
		h.rd.Render(w, http.StatusBadRequest, "edit_image.html", editImagePage{
			Username: username,
			Image:    img,
			DataURI:  dataURI(img.MimeType, img.Data),
			Error:    "Title is required and must be at most 120 characters",
		})
		return
	}

	if err := h.store.UpdateMetadata(img.ImageID, title, r.PostFormValue("image_desc"), userID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "Image not found", http.StatusNotFound)
		case errors.Is(err, ErrNotOwner):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Println("edit image:", err)
			http.Error(w, "Failed to update image", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/room_images/"+img.RoomID, http.StatusSeeOther)
}

// DeleteImageHandler removes the image and re-renders the room's photo page
// from the remaining images the store hands back.
func (h *Handler) DeleteImageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	username, _ := utils.GetUsernameFromContext(r.Context())

	roomID := chi.URLParam(r, "room_id")
	remaining, err := h.store.Delete(roomID, chi.URLParam(r, "image_id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "Image not found", http.StatusNotFound)
		case errors.Is(err, ErrNotOwner):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Println("delete image:", err)
			http.Error(w, "Failed to delete image", http.StatusInternalServerError)
		}
		return
	}

	room, err := h.roomStore.GetByID(roomID)
	if err != nil {
		// Image was deleted; fall back to the listing page.
		http.Redirect(w, r, "/rooms", http.StatusSeeOther)
		return
	}

	page := roomImagesPage{Username: username, Room: room, Owner: true}
	for _, img := range remaining {
		page.Images = append(page.Images, imageView{
			ImageID:     img.ImageID,
			Title:       img.Title,
			Description: img.Description,
			DataURI:     dataURI(img.MimeType, img.Data),
		})
	}
	h.rd.Render(w, http.StatusOK, "room_images.html", page)
}
