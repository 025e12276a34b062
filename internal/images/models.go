package images

import (
	"time"
)

// Image rows hold the uploaded bytes inline; the blob column is the single
// source of truth, there is no filesystem copy.
type Image struct {
	ImageID     string `gorm:"primaryKey" json:"image_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	MimeType    string `json:"mime_type"`
	Data        []byte `gorm:"not null" json:"-"`
	UserID      string `gorm:"index;not null" json:"user_id"`
	RoomID      string `gorm:"index;not null" json:"room_id"`
	CreatedAt   time.Time
}

func (Image) TableName() string { return "images" }

// ImageWithRoom is an image row joined with the owning room's title.
type ImageWithRoom struct {
	ImageID     string `json:"image_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MimeType    string `json:"mime_type"`
	Data        []byte `json:"-"`
	UserID      string `json:"user_id"`
	RoomID      string `json:"room_id"`
	RoomName    string `json:"room_name"`
}
