package rooms

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/HomeHarmony/HH-Backend/internal/middleware"
	"github.com/HomeHarmony/HH-Backend/internal/utils"
	"github.com/HomeHarmony/HH-Backend/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxTitleLen = 120

type Handler struct {
	store    *Store
	rd       *web.Renderer
	verifier middleware.TokenVerifier
}

func NewHandler(store *Store, rd *web.Renderer, verifier middleware.TokenVerifier) *Handler {
	return &Handler{store: store, rd: rd, verifier: verifier}
}

type roomsPage struct {
	Username string
	Rooms    []Room
}

type roomFormPage struct {
	Username string
	Room     *Room
	Error    string
}

// RoomsHandler serves /home and /rooms: the session user's rooms when logged
// in, every room for anonymous visitors.
func (h *Handler) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	username, _ := utils.GetUsernameFromContext(r.Context())

	var (
		list []Room
		err  error
	)
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		list, err = h.store.ListByOwner(userID)
	} else {
		list, err = h.store.ListAll()
	}
	if err != nil {
		log.Println("rooms:", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	h.rd.Render(w, http.StatusOK, "rooms.html", roomsPage{Username: username, Rooms: list})
}

func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	username, _ := utils.GetUsernameFromContext(r.Context())
	h.rd.Render(w, http.StatusOK, "index.html", roomsPage{Username: username})
}

func (h *Handler) AddRoomPageHandler(w http.ResponseWriter, r *http.Request) {
	username, _ := utils.GetUsernameFromContext(r.Context())
	h.rd.Render(w, http.StatusOK, "add_room.html", roomFormPage{Username: username})
}

// parseRoomForm reads the shared add/edit form fields into room, returning a
// user-facing validation message when the input is unusable.
func parseRoomForm(r *http.Request, room *Room) string {
	room.Title = r.PostFormValue("room_name")
	room.Description = r.PostFormValue("room_desc")
	room.WallColor = r.PostFormValue("wall_color")
	room.TrimColor = r.PostFormValue("trim_color")

	if room.Title == "" || len(room.Title) > maxTitleLen {
		return "Room name is required and must be at most 120 characters"
	}

	if raw := r.PostFormValue("wall_count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 0 {
			return "Number of walls must be a non-negative number"
		}
		room.WallCount = count
	}
	return ""
}

func (h *Handler) AddRoomHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	username, _ := utils.GetUsernameFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	room := Room{RoomID: uuid.NewString(), UserID: userID}
	if msg := parseRoomForm(r, &room); msg != "" {
		h.rd.Render(w, http.StatusBadRequest, "add_room.html", roomFormPage{Username: username, Error: msg})
		return
	}

	if err := h.store.Create(&room); err != nil {
		log.Println("add room:", err)
		http.Error(w, "Failed to create room", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/rooms", http.StatusSeeOther)
}

// ownedRoom loads the room and enforces that the session user owns it,
// writing the error response itself when not.
func (h *Handler) ownedRoom(w http.ResponseWriter, r *http.Request) (*Room, string, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, "", false
	}
	username, _ := utils.GetUsernameFromContext(r.Context())

	room, err := h.store.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
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

func (h *Handler) EditRoomPageHandler(w http.ResponseWriter, r *http.Request) {
	room, username, ok := h.ownedRoom(w, r)
	if !ok {
		return
	}
	h.rd.Render(w, http.StatusOK, "edit_room.html", roomFormPage{Username: username, Room: room})
}

func (h *Handler) EditRoomHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	username, _ := utils.GetUsernameFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	room := Room{RoomID: chi.URLParam(r, "id")}
	if msg := parseRoomForm(r, &room); msg != "" {
		existing, err := h.store.GetByID(room.RoomID)
		if err != nil {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}
		h.rd.Render(w, http.StatusBadRequest, "edit_room.html", roomFormPage{Username: username, Room: existing, Error: msg})
		return
	}

	if err := h.store.Update(&room, userID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "Room not found", http.StatusNotFound)
		case errors.Is(err, ErrNotOwner):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Println("edit room:", err)
			http.Error(w, "Failed to update room", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/rooms", http.StatusSeeOther)
}

func (h *Handler) ConfirmDeleteHandler(w http.ResponseWriter, r *http.Request) {
	room, username, ok := h.ownedRoom(w, r)
	if !ok {
		return
	}
	h.rd.Render(w, http.StatusOK, "confirm_delete.html", roomFormPage{Username: username, Room: room})
}

func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.store.Delete(chi.URLParam(r, "id"), userID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "Room not found", http.StatusNotFound)
		case errors.Is(err, ErrNotOwner):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Println("delete room:", err)
			http.Error(w, "Failed to delete room", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/rooms", http.StatusSeeOther)
}
