package rooms_test

import (
	"testing"

	"github.com/HomeHarmony/HH-Backend/internal/auth"
	"github.com/HomeHarmony/HH-Backend/internal/db"
	"github.com/HomeHarmony/HH-Backend/internal/images"
	"github.com/HomeHarmony/HH-Backend/internal/rooms"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	handle, err := db.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, auth.Init(handle))
	require.NoError(t, rooms.Init(handle))
	require.NoError(t, images.Init(handle))
	return handle
}

func makeRoom(title, ownerID string) *rooms.Room {
	return &rooms.Room{
		RoomID:      uuid.NewString(),
		Title:       title,
		Description: "a room",
		WallCount:   4,
		WallColor:   "Sage Green",
		TrimColor:   "White",
		UserID:      ownerID,
	}
}

func TestListByOwner_Isolation(t *testing.T) {
	store := rooms.NewStore(newTestDB(t))

	aliceID := uuid.NewString()
	bobID := uuid.NewString()

	require.NoError(t, store.Create(makeRoom("Living Room", aliceID)))
	require.NoError(t, store.Create(makeRoom("Kitchen", aliceID)))
	require.NoError(t, store.Create(makeRoom("Garage", bobID)))

	aliceRooms, err := store.ListByOwner(aliceID)
	require.NoError(t, err)
	require.Len(t, aliceRooms, 2)
	for _, room := range aliceRooms {
		assert.Equal(t, aliceID, room.UserID)
	}

	bobRooms, err := store.ListByOwner(bobID)
	require.NoError(t, err)
	require.Len(t, bobRooms, 1)
	assert.Equal(t, "Garage", bobRooms[0].Title)

	all, err := store.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetByID_NotFound(t *testing.T) {
	store := rooms.NewStore(newTestDB(t))

	_, err := store.GetByID("no-such-room")
	require.ErrorIs(t, err, rooms.ErrNotFound)
}

func TestUpdate_OwnershipEnforced(t *testing.T) {
	store := rooms.NewStore(newTestDB(t))

	ownerID := uuid.NewString()
	room := makeRoom("Bedroom", ownerID)
	require.NoError(t, store.Create(room))

	room.Title = "Master Bedroom"
	require.NoError(t, store.Update(room, ownerID))

	got, err := store.GetByID(room.RoomID)
	require.NoError(t, err)
	assert.Equal(t, "Master Bedroom", got.Title)

	// Someone else can't touch it.
	room.Title = "Hijacked"
	err = store.Update(room, uuid.NewString())
	require.ErrorIs(t, err, rooms.ErrNotOwner)

	got, err = store.GetByID(room.RoomID)
	require.NoError(t, err)
	assert.Equal(t, "Master Bedroom", got.Title)
}

func TestUpdate_MissingRoom(t *testing.T) {
	store := rooms.NewStore(newTestDB(t))

	ghost := makeRoom("Ghost", uuid.NewString())
	require.ErrorIs(t, store.Update(ghost, ghost.UserID), rooms.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := rooms.NewStore(newTestDB(t))

	ownerID := uuid.NewString()
	room := makeRoom("Hallway", ownerID)
	require.NoError(t, store.Create(room))

	require.ErrorIs(t, store.Delete(room.RoomID, uuid.NewString()), rooms.ErrNotOwner)
	require.NoError(t, store.Delete(room.RoomID, ownerID))

	_, err := store.GetByID(room.RoomID)
	require.ErrorIs(t, err, rooms.ErrNotFound)

	// Deleting a room that never existed is a typed miss, not a fault.
	require.ErrorIs(t, store.Delete("no-such-room", ownerID), rooms.ErrNotFound)
}

func TestDelete_CascadesToImages(t *testing.T) {
	handle := newTestDB(t)
	store := rooms.NewStore(handle)
	imageStore := images.NewStore(handle)

	ownerID := uuid.NewString()
	room := makeRoom("Nursery", ownerID)
	require.NoError(t, store.Create(room))

	img := &images.Image{
		ImageID:  uuid.NewString(),
		Title:    "Crib wall",
		MimeType: "image/png",
		Data:     []byte{0x89, 0x50, 0x4e, 0x47},
		UserID:   ownerID,
		RoomID:   room.RoomID,
	}
	require.NoError(t, imageStore.Insert(img))

	require.NoError(t, store.Delete(room.RoomID, ownerID))

	_, err := imageStore.GetByID(img.ImageID)
	require.ErrorIs(t, err, images.ErrNotFound)
}
