package rooms

import (
	"time"
)

type Room struct {
	RoomID      string `gorm:"primaryKey" json:"room_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	WallCount   int    `json:"wall_count"`
	WallColor   string `json:"wall_color"`
	TrimColor   string `json:"trim_color"`
	UserID      string `gorm:"index;not null" json:"user_id"`
	CreatedAt   time.Time
}

func (Room) TableName() string { return "rooms" }
