package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/HomeHarmony/HH-Backend/internal/auth"
	"github.com/HomeHarmony/HH-Backend/internal/db"
	"github.com/HomeHarmony/HH-Backend/internal/images"
	"github.com/HomeHarmony/HH-Backend/internal/rooms"
	"github.com/HomeHarmony/HH-Backend/internal/token"
	"github.com/HomeHarmony/HH-Backend/internal/web"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	dbHandle, err := db.Connect(os.Getenv("DATABASE_PATH"))
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := auth.Init(dbHandle); err != nil {
		log.Fatal("Failed to set up users: ", err)
	}
	if err := rooms.Init(dbHandle); err != nil {
		log.Fatal("Failed to set up rooms: ", err)
	}
	if err := images.Init(dbHandle); err != nil {
		log.Fatal("Failed to set up images: ", err)
	}

	issuer, err := token.New(secret, token.DefaultTTL)
	if err != nil {
		log.Fatal("Failed to initialize token issuer: ", err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal("Failed to load templates: ", err)
	}

	// Cookies stay non-Secure for plain-HTTP local dev.
	secureCookies := os.Getenv("SECURE_COOKIES") == "true"

	roomStore := rooms.NewStore(dbHandle)
	authHandler := auth.NewHandler(auth.NewStore(dbHandle), issuer, renderer, secureCookies)
	roomHandler := rooms.NewHandler(roomStore, renderer, issuer)
	imageHandler := images.NewHandler(images.NewStore(dbHandle), roomStore, renderer, issuer)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Handle("/static/*", web.StaticHandler())
	auth.RegisterRoutes(r, authHandler)
	rooms.RegisterRoutes(r, roomHandler)
	images.RegisterRoutes(r, imageHandler)

	fmt.Println("Server listening on port :" + port + "...")

	if err := http.ListenAndServe("0.0.0.0:"+port, r); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
