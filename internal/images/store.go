package images

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("image not found")
	ErrNotOwner = errors.New("image belongs to another user")
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(img *Image) error {
	if err := s.db.Create(img).Error; err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

func (s *Store) ListByRoom(roomID string) ([]Image, error) {
	var imgs []Image
	if err := s.db.Where("room_id = ?", roomID).Order("created_at").Find(&imgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return imgs, nil
}

func (s *Store) ListByOwner(ownerID string) ([]Image, error) {
	var imgs []Image
	if err := s.db.Where("user_id = ?", ownerID).Order("created_at").Find(&imgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return imgs, nil
}

func (s *Store) GetByID(id string) (*Image, error) {
	var img Image
	if err := s.db.First(&img, "image_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return &img, nil
}

// ListWithRoomName returns the owner's images joined with each room's title,
// ordered by room id.
func (s *Store) ListWithRoomName(ownerID string) ([]ImageWithRoom, error) {
	var rows []ImageWithRoom
	err := s.db.Table("images").
		Select("images.image_id, images.title, images.description, images.mime_type, images.data, images.user_id, images.room_id, rooms.title AS room_name").
		Joins("JOIN rooms ON rooms.room_id = images.room_id").
		Where("images.user_id = ?", ownerID).
		Order("images.room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images with room names: %w", err)
	}
	return rows, nil
}

// UpdateMetadata rewrites title and description only. actorID must own the
// image.
func (s *Store) UpdateMetadata(id, title, description, actorID string) error {
	existing, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if existing.UserID != actorID {
		return ErrNotOwner
	}

	err = s.db.Model(&Image{}).Where("image_id = ?", id).Updates(map[string]any{
		"title":       title,
		"description": description,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}
	return nil
}

// Delete removes one image and returns the room's remaining images, so the
// caller can re-render the listing without a second query.
func (s *Store) Delete(roomID, imageID, actorID string) ([]Image, error) {
	existing, err := s.GetByID(imageID)
	if err != nil {
		return nil, err
	}
	if existing.RoomID != roomID {
		return nil, ErrNotFound
	}
	if existing.UserID != actorID {
		return nil, ErrNotOwner
	}

	if err := s.db.Delete(&Image{}, "image_id = ?", imageID).Error; err != nil {
		return nil, fmt.Errorf("failed to delete image: %w", err)
	}

	return s.ListByRoom(roomID)
}
