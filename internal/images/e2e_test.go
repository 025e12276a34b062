package images_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/HomeHarmony/HH-Backend/internal/auth"
	"github.com/HomeHarmony/HH-Backend/internal/images"
	"github.com/HomeHarmony/HH-Backend/internal/rooms"
	"github.com/HomeHarmony/HH-Backend/internal/token"
	"github.com/HomeHarmony/HH-Backend/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// pngBytes is a tiny payload with a real PNG signature so content sniffing
// accepts it.
var pngBytes = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52}

// newApp wires auth, rooms and images against one in-memory database, the
// same way main.go does.
func newApp(t *testing.T) (*httptest.Server, *http.Client, *gorm.DB) {
	t.Helper()

	handle := newTestDB(t)

	issuer, err := token.New("test-secret", time.Hour)
	require.NoError(t, err)
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	roomStore := rooms.NewStore(handle)
	authHandler := auth.NewHandler(auth.NewStore(handle), issuer, renderer, false)
	roomHandler := rooms.NewHandler(roomStore, renderer, issuer)
	imageHandler := images.NewHandler(images.NewStore(handle), roomStore, renderer, issuer)

	r := chi.NewRouter()
	auth.RegisterRoutes(r, authHandler)
	rooms.RegisterRoutes(r, roomHandler)
	images.RegisterRoutes(r, imageHandler)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return server, &http.Client{Jar: jar}, handle
}

func mustPostForm(t *testing.T, client *http.Client, url string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(url, form)
	require.NoError(t, err)
	return resp
}

func drain(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func uploadFile(t *testing.T, client *http.Client, target, name, desc, filename string, payload []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("image_name", name))
	require.NoError(t, mw.WriteField("image_desc", desc))
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, target, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestEndToEnd_SignupRoomUpload(t *testing.T) {
	server, client, handle := newApp(t)

	// Signup and login as alice.
	drain(t, mustPostForm(t, client, server.URL+"/signup", url.Values{
		"username": {"alice"},
		"password": {"correcthorse"},
	}))
	resp := mustPostForm(t, client, server.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"correcthorse"},
	})
	drain(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Create the Living Room.
	resp = mustPostForm(t, client, server.URL+"/add_room", url.Values{
		"room_name":  {"Living Room"},
		"room_desc":  {"South-facing"},
		"wall_count": {"4"},
		"wall_color": {"Sage Green"},
		"trim_color": {"White"},
	})
	body := drain(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Living Room")

	// Exactly one room for alice.
	user, err := auth.NewStore(handle).FindByUsername("alice")
	require.NoError(t, err)
	list, err := rooms.NewStore(handle).ListByOwner(user.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Living Room", list[0].Title)

	// Upload a PNG to it and read the stored bytes back.
	resp = uploadFile(t, client, server.URL+"/upload_image/"+list[0].RoomID,
		"Sofa wall", "Before repainting", "sofa.png", pngBytes)
	drain(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := images.NewStore(handle).ListByRoom(list[0].RoomID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "image/png", stored[0].MimeType)
	assert.True(t, bytes.Equal(pngBytes, stored[0].Data), "fetched bytes must equal uploaded bytes")

	// The room's photo page renders the image inline.
	resp, err = client.Get(server.URL + "/room_images/" + list[0].RoomID)
	require.NoError(t, err)
	body = drain(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Sofa wall")
	assert.Contains(t, body, "data:image/png;base64,")
}

func TestUpload_RejectsNonImage(t *testing.T) {
	server, client, handle := newApp(t)

	drain(t, mustPostForm(t, client, server.URL+"/signup", url.Values{
		"username": {"bob"},
		"password": {"password123"},
	}))
	drain(t, mustPostForm(t, client, server.URL+"/login", url.Values{
		"username": {"bob"},
		"password": {"password123"},
	}))
	drain(t, mustPostForm(t, client, server.URL+"/add_room", url.Values{
		"room_name": {"Office"},
	}))

	user, err := auth.NewStore(handle).FindByUsername("bob")
	require.NoError(t, err)
	list, err := rooms.NewStore(handle).ListByOwner(user.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Extension says png, bytes say plain text: the bytes win.
	resp := uploadFile(t, client, server.URL+"/upload_image/"+list[0].RoomID,
		"Not an image", "", "fake.png", []byte("just some text"))
	body := drain(t, resp)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "not an image")

	stored, err := images.NewStore(handle).ListByRoom(list[0].RoomID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRoomImages_OtherUsersCannotMutate(t *testing.T) {
	server, client, handle := newApp(t)

	// alice owns a room with a photo.
	drain(t, mustPostForm(t, client, server.URL+"/signup", url.Values{
		"username": {"alice"},
		"password": {"correcthorse"},
	}))
	drain(t, mustPostForm(t, client, server.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"correcthorse"},
	}))
	drain(t, mustPostForm(t, client, server.URL+"/add_room", url.Values{
		"room_name": {"Studio"},
	}))

	user, err := auth.NewStore(handle).FindByUsername("alice")
	require.NoError(t, err)
	list, err := rooms.NewStore(handle).ListByOwner(user.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	roomID := list[0].RoomID

	drain(t, uploadFile(t, client, server.URL+"/upload_image/"+roomID,
		"Easel", "", "easel.png", pngBytes))

	imgs, err := images.NewStore(handle).ListByRoom(roomID)
	require.NoError(t, err)
	require.Len(t, imgs, 1)

	// mallory logs in with her own client and tries to delete alice's photo.
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	mallory := &http.Client{Jar: jar}

	drain(t, mustPostForm(t, mallory, server.URL+"/signup", url.Values{
		"username": {"mallory"},
		"password": {"password123"},
	}))
	drain(t, mustPostForm(t, mallory, server.URL+"/login", url.Values{
		"username": {"mallory"},
		"password": {"password123"},
	}))

	resp, err := mallory.Get(server.URL + "/delete_image/" + roomID + "/" + imgs[0].ImageID)
	require.NoError(t, err)
	drain(t, resp)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Photo survived.
	imgs, err = images.NewStore(handle).ListByRoom(roomID)
	require.NoError(t, err)
	assert.Len(t, imgs, 1)
}
