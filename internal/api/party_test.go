package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"moviemate/internal/db"
	"moviemate/internal/party"
)

// setupPartyRouter creates a test Gin router with party routes
func setupPartyRouter(repos *db.Repositories) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	apiGroup := router.Group("/api")
	SetupPartyRoutes(apiGroup, party.NewService(repos))
	return router
}

func createRoomViaAPI(t *testing.T, router *gin.Engine) RoomResponse {
	t.Helper()

	w := doJSON(t, router, "POST", "/api/party/create", CreateRoomRequest{
		MediaID:    "media-1",
		MediaTitle: "Inception",
		HostID:     "host-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var room RoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
	return room
}

func TestCreateRoomEndpoint(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupPartyRouter(repos)

	t.Run("Room is created with host member", func(t *testing.T) {
		room := createRoomViaAPI(t, router)

		assert.Len(t, room.Code, 6)
		assert.True(t, room.IsActive)
		assert.Equal(t, "host-1", room.HostID)
		require.Len(t, room.Members, 1)
		assert.True(t, room.Members[0].IsHost)
		assert.Equal(t, 1, room.MemberCount)
	})

	t.Run("Missing fields are rejected", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/party/create", map[string]string{"media_id": "media-1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestJoinRoomEndpoint(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupPartyRouter(repos)

	room := createRoomViaAPI(t, router)

	t.Run("New member joins", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/party/"+room.Code+"/join", JoinRoomRequest{
			UserID:   "user-2",
			UserName: "Alice",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var joined RoomResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &joined))
		assert.Equal(t, 2, joined.MemberCount)
	})

	t.Run("Joining twice conflicts", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/party/"+room.Code+"/join", JoinRoomRequest{
			UserID:   "user-2",
			UserName: "Alice",
		})

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "already_member", resp.Error)
	})

	t.Run("Unknown room is not found", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/party/ZZZZZZ/join", JoinRoomRequest{
			UserID:   "user-3",
			UserName: "Bob",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Lowercase code is accepted", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/party/"+strings.ToLower(room.Code), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveRoomEndpoint(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupPartyRouter(repos)

	room := createRoomViaAPI(t, router)

	w := doJSON(t, router, "POST", "/api/party/"+room.Code+"/join", JoinRoomRequest{
		UserID:   "user-2",
		UserName: "Alice",
	})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("Member leave keeps the room active", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/party/"+room.Code+"/leave", LeaveRoomRequest{UserID: "user-2"})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp LeaveRoomResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Ended)
		assert.True(t, resp.Room.IsActive)
		assert.Equal(t, 1, resp.Room.MemberCount)
	})

	t.Run("Non-member leave is not found", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/party/"+room.Code+"/leave", LeaveRoomRequest{UserID: "stranger"})
		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "member_not_found", resp.Error)
	})

	t.Run("Host leave ends the room", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/party/"+room.Code+"/leave", LeaveRoomRequest{UserID: "host-1"})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp LeaveRoomResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Ended)
		assert.False(t, resp.Room.IsActive)

		// Ended rooms disappear from lookup
		w = doJSON(t, router, "GET", "/api/party/"+room.Code, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEndRoomEndpoint(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupPartyRouter(repos)

	room := createRoomViaAPI(t, router)

	w := doJSON(t, router, "POST", "/api/party/"+room.Code+"/end", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Ending twice still acknowledges
	w = doJSON(t, router, "POST", "/api/party/"+room.Code+"/end", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/party/ZZZZZZ/end", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncEndpoint(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupPartyRouter(repos)

	room := createRoomViaAPI(t, router)

	t.Run("Valid action is acknowledged", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/party/"+room.Code+"/sync", SyncRequest{
			Action:      "play",
			TimestampMs: 90000,
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var ack party.SyncAck
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
		assert.Equal(t, room.Code, ack.RoomCode)
		assert.Equal(t, "play", ack.Action)
		assert.Equal(t, int64(90000), ack.TimestampMs)
	})

	t.Run("Invalid action is rejected", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/party/"+room.Code+"/sync", SyncRequest{Action: "rewind"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid_action", resp.Error)
	})
}

func TestStartWatchingEndpoint(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router := setupPartyRouter(repos)

	room := createRoomViaAPI(t, router)

	w := doJSON(t, router, "POST", "/api/party/"+room.Code+"/start", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var started StartWatchingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	assert.Equal(t, "Inception", started.Room.MediaTitle)
	assert.False(t, started.StartedAt.IsZero())
}
