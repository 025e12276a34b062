// Seeds the database with demo users and rooms from a YAML file.
//
// Usage: go run ./cmd/seed [seed.yaml]
package main

import (
	"log"
	"os"

	"github.com/HomeHarmony/HH-Backend/internal/auth"
	"github.com/HomeHarmony/HH-Backend/internal/db"
	"github.com/HomeHarmony/HH-Backend/internal/images"
	"github.com/HomeHarmony/HH-Backend/internal/rooms"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type seedRoom struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	WallCount   int    `yaml:"wall_count"`
	WallColor   string `yaml:"wall_color"`
	TrimColor   string `yaml:"trim_color"`
}

type seedUser struct {
	Username string     `yaml:"username"`
	Password string     `yaml:"password"`
	Rooms    []seedRoom `yaml:"rooms"`
}

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

func main() {
	_ = godotenv.Load(".env.local")

	path := "seed.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("could not read %s: %v", path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("could not parse %s: %v", path, err)
	}

	dbHandle, err := db.Connect(os.Getenv("DATABASE_PATH"))
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}

	if err := auth.Init(dbHandle); err != nil {
		log.Fatal(err)
	}
	if err := rooms.Init(dbHandle); err != nil {
		log.Fatal(err)
	}
	if err := images.Init(dbHandle); err != nil {
		log.Fatal(err)
	}

	userStore := auth.NewStore(dbHandle)
	roomStore := rooms.NewStore(dbHandle)

	for _, su := range seed.Users {
		salt, err := auth.GenerateSalt()
		if err != nil {
			log.Fatal(err)
		}
		hashed, err := auth.HashPassword(su.Password, salt)
		if err != nil {
			log.Fatal(err)
		}

		user := &auth.User{
			UserID:         uuid.NewString(),
			Username:       auth.NormalizeUsername(su.Username),
			Salt:           salt,
			HashedPassword: hashed,
		}
		if err := userStore.Create(user); err != nil {
			log.Printf("skipping user %s: %v", su.Username, err)
			continue
		}

		for _, sr := range su.Rooms {
			room := &rooms.Room{
				RoomID:      uuid.NewString(),
				Title:       sr.Title,
				Description: sr.Description,
				WallCount:   sr.WallCount,
				WallColor:   sr.WallColor,
				TrimColor:   sr.TrimColor,
				UserID:      user.UserID,
			}
			if err := roomStore.Create(room); err != nil {
				log.Fatal(err)
			}
		}
		log.Printf("seeded user %s with %d rooms", user.Username, len(su.Rooms))
	}
}
