package auth

type User struct {
	UserID         string `gorm:"primaryKey" json:"user_id"`
	Username       string `gorm:"uniqueIndex;not null" json:"username"`
	Salt           string `json:"-"`
	HashedPassword string `json:"-"`
}

func (User) TableName() string { return "users" }
