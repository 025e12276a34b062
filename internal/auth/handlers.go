package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/HomeHarmony/HH-Backend/internal/middleware"
	"github.com/HomeHarmony/HH-Backend/internal/token"
	"github.com/HomeHarmony/HH-Backend/internal/utils"
	"github.com/HomeHarmony/HH-Backend/internal/web"
	"github.com/google/uuid"
)

const (
	maxUsernameLen = 64
	minPasswordLen = 8
)

type Handler struct {
	store         *Store
	issuer        *token.Issuer
	rd            *web.Renderer
	secureCookies bool
}

func NewHandler(store *Store, issuer *token.Issuer, rd *web.Renderer, secureCookies bool) *Handler {
	return &Handler{store: store, issuer: issuer, rd: rd, secureCookies: secureCookies}
}

type credentialsPage struct {
	Username     string // logged-in user, for the nav
	FormUsername string
	Error        string
}

type accountPage struct {
	Username string
	Error    string
	Flash    string
}

// sessionCookie builds the access_token cookie. Secure is driven by config so
// local dev over plain HTTP still works.
func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	}
}

func (h *Handler) setSession(w http.ResponseWriter, user *User) error {
	signed, err := h.issuer.Issue(user.UserID, user.Username)
	if err != nil {
		return err
	}
	http.SetCookie(w, h.sessionCookie("Bearer "+signed, int(h.issuer.TTL().Seconds())))
	return nil
}

func (h *Handler) SignupPageHandler(w http.ResponseWriter, r *http.Request) {
	h.rd.Render(w, http.StatusOK, "signup.html", credentialsPage{})
}

func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := NormalizeUsername(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	page := credentialsPage{FormUsername: username}
	switch {
	case username == "" || len(username) > maxUsernameLen:
		page.Error = "Username is required and must be at most 64 characters"
		h.rd.Render(w, http.StatusBadRequest, "signup.html", page)
		return
	case len(password) < minPasswordLen:
		page.Error = "Password must be at least 8 characters"
		h.rd.Render(w, http.StatusBadRequest, "signup.html", page)
		return
	}

	salt, err := GenerateSalt()
	if err != nil {
		log.Println("signup:", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	hashed, err := HashPassword(password, salt)
	if err != nil {
		log.Println("signup:", err)
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	user := &User{
		UserID:         uuid.NewString(),
		Username:       username,
		Salt:           salt,
		HashedPassword: hashed,
	}
	if err := h.store.Create(user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			page.Error = "That username is already taken"
			h.rd.Render(w, http.StatusConflict, "signup.html", page)
			return
		}
		log.Println("signup:", err)
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	h.rd.Render(w, http.StatusOK, "login.html", credentialsPage{})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := NormalizeUsername(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	page := credentialsPage{FormUsername: username}

	user, err := h.store.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same message as a bad password, to not leak which usernames exist.
			page.Error = "Invalid username or password"
			h.rd.Render(w, http.StatusUnauthorized, "login.html", page)
			return
		}
		log.Println("login:", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if !CheckPassword(user, password) {
		page.Error = "Invalid username or password"
		h.rd.Render(w, http.StatusUnauthorized, "login.html", page)
		return
	}

	if err := h.setSession(w, user); err != nil {
		log.Println("login:", err)
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/rooms", http.StatusSeeOther)
}

// LogoutHandler clears the cookie. The token itself stays valid until expiry;
// there is no server-side revocation list.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *Handler) AccountPageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.store.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Token outlived the account.
			http.Error(w, "Couldn't find user", http.StatusNotFound)
			return
		}
		log.Println("account:", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	h.rd.Render(w, http.StatusOK, "account.html", accountPage{Username: user.Username})
}

func (h *Handler) AccountUpdateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.store.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Couldn't find user", http.StatusNotFound)
			return
		}
		log.Println("account update:", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := NormalizeUsername(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	page := accountPage{Username: user.Username}
	if username == "" || len(username) > maxUsernameLen {
		page.Error = "Username is required and must be at most 64 characters"
		h.rd.Render(w, http.StatusBadRequest, "account.html", page)
		return
	}
	user.Username = username

	if password != "" {
		if len(password) < minPasswordLen {
			page.Error = "Password must be at least 8 characters"
			h.rd.Render(w, http.StatusBadRequest, "account.html", page)
			return
		}
		salt, err := GenerateSalt()
		if err != nil {
			log.Println("account update:", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}
		hashed, err := HashPassword(password, salt)
		if err != nil {
			log.Println("account update:", err)
			http.Error(w, "Server error hashing password", http.StatusInternalServerError)
			return
		}
		user.Salt = salt
		user.HashedPassword = hashed
	}

	if err := h.store.Update(user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			page.Error = "That username is already taken"
			h.rd.Render(w, http.StatusConflict, "account.html", page)
			return
		}
		log.Println("account update:", err)
		http.Error(w, "Failed to update account", http.StatusInternalServerError)
		return
	}

	// Re-issue the session so the token's embedded username stays current.
	if err := h.setSession(w, user); err != nil {
		log.Println("account update:", err)
		http.Error(w, "Failed to refresh session", http.StatusInternalServerError)
		return
	}

	page.Username = user.Username
	page.Flash = "Account updated"
	h.rd.Render(w, http.StatusOK, "account.html", page)
}

func (h *Handler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.store.Delete(userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Couldn't find user", http.StatusNotFound)
			return
		}
		log.Println("delete account:", err)
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}
