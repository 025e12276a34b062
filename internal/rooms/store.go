package rooms

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("room not found")
	ErrNotOwner = errors.New("room belongs to another user")
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(room *Room) error {
	if err := s.db.Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (s *Store) ListAll() ([]Room, error) {
	var rooms []Room
	if err := s.db.Order("created_at").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *Store) ListByOwner(ownerID string) ([]Room, error) {
	var rooms []Room
	if err := s.db.Where("user_id = ?", ownerID).Order("created_at").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *Store) GetByID(id string) (*Room, error) {
	var room Room
	if err := s.db.First(&room, "room_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// Update rewrites the room's editable fields. actorID must match the owner;
// mutating someone else's room is ErrNotOwner.
func (s *Store) Update(room *Room, actorID string) error {
	existing, err := s.GetByID(room.RoomID)
	if err != nil {
		return err
	}
	if existing.UserID != actorID {
		return ErrNotOwner
	}

	err = s.db.Model(&Room{}).Where("room_id = ?", room.RoomID).Updates(map[string]any{
		"title":       room.Title,
		"description": room.Description,
		"wall_count":  room.WallCount,
		"wall_color":  room.WallColor,
		"trim_color":  room.TrimColor,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	return nil
}

// Delete removes the room and its images. Same ownership rule as Update.
func (s *Store) Delete(id, actorID string) error {
	existing, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if existing.UserID != actorID {
		return ErrNotOwner
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM images WHERE room_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Room{}, "room_id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}
