package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"moviemate/internal/logger"
	"moviemate/internal/models"
	"moviemate/internal/party"
)

// CreateRoomRequest represents a request to open a watch party room
type CreateRoomRequest struct {
	MediaID     string  `json:"media_id" binding:"required"`
	MediaTitle  string  `json:"media_title" binding:"required"`
	MediaPoster *string `json:"media_poster,omitempty"`
	HostID      string  `json:"host_id" binding:"required"`
}

// JoinRoomRequest represents a request to join a room
type JoinRoomRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	UserName string `json:"user_name" binding:"required"`
}

// LeaveRoomRequest represents a request to leave a room
type LeaveRoomRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// SyncRequest represents a playback sync event
type SyncRequest struct {
	Action      string `json:"action" binding:"required"`
	TimestampMs int64  `json:"timestamp"`
}

// RoomResponse represents a party room with its member list expanded
type RoomResponse struct {
	ID          string               `json:"id"`
	Code        string               `json:"code"`
	MediaID     string               `json:"media_id"`
	MediaTitle  string               `json:"media_title"`
	MediaPoster *string              `json:"media_poster,omitempty"`
	HostID      string               `json:"host_id"`
	IsActive    bool                 `json:"is_active"`
	Members     []models.PartyMember `json:"members"`
	MemberCount int                  `json:"member_count"`
	CreatedAt   time.Time            `json:"created_at"`
}

// LeaveRoomResponse reports the room state after a member left
type LeaveRoomResponse struct {
	Room  RoomResponse `json:"room"`
	Ended bool         `json:"ended"`
}

// EndRoomResponse acknowledges an explicit room end
type EndRoomResponse struct {
	Message string `json:"message"`
}

// StartWatchingResponse acknowledges the start of the shared session
type StartWatchingResponse struct {
	Room      RoomResponse `json:"room"`
	StartedAt time.Time    `json:"started_at"`
}

// PartyHandler handles watch party API requests
type PartyHandler struct {
	party *party.Service
}

// NewPartyHandler creates a new party handler instance
func NewPartyHandler(partyService *party.Service) *PartyHandler {
	return &PartyHandler{party: partyService}
}

// roomResponse expands the stored membership document into the API shape
func roomResponse(room *models.PartyRoom) (RoomResponse, error) {
	members, err := room.MemberList()
	if err != nil {
		return RoomResponse{}, err
	}

	return RoomResponse{
		ID:          room.ID.String(),
		Code:        room.Code,
		MediaID:     room.MediaID,
		MediaTitle:  room.MediaTitle,
		MediaPoster: room.MediaPoster,
		HostID:      room.HostID,
		IsActive:    room.IsActive,
		Members:     members,
		MemberCount: len(members),
		CreatedAt:   room.CreatedAt,
	}, nil
}

// writePartyError maps party service errors onto HTTP responses
func writePartyError(c *gin.Context, err error) {
	switch {
	case party.IsRoomNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "room_not_found",
			Message: "Party room not found",
		})
	case party.IsAlreadyMember(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "already_member",
			Message: "User is already in this party room",
		})
	case party.IsMemberNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "member_not_found",
			Message: "User is not in this party room",
		})
	case errors.Is(err, party.ErrInvalidSyncAction):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_action",
			Message: "Playback action must be play, pause, or seek",
		})
	case errors.Is(err, party.ErrConflictExhausted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "membership_conflict",
			Message: "Room membership changed, try again",
		})
	default:
		logger.Log.Error().Err(err).Msg("Party operation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Party operation failed",
		})
	}
}

// respondRoom writes the expanded room or the serialization failure
func respondRoom(c *gin.Context, status int, room *models.PartyRoom) {
	resp, err := roomResponse(room)
	if err != nil {
		logger.Log.Error().Err(err).Str("code", room.Code).Msg("Failed to decode room membership")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Party operation failed",
		})
		return
	}
	c.JSON(status, resp)
}

// CreateRoom handles POST /api/party/create
func (h *PartyHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	room, err := h.party.CreateRoom(ctx, req.MediaID, req.MediaTitle, req.MediaPoster, req.HostID)
	if err != nil {
		writePartyError(c, err)
		return
	}

	respondRoom(c, http.StatusCreated, room)
}

// GetRoom handles GET /api/party/:code
func (h *PartyHandler) GetRoom(c *gin.Context) {
	code := roomCode(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	room, err := h.party.GetRoom(ctx, code)
	if err != nil {
		writePartyError(c, err)
		return
	}

	respondRoom(c, http.StatusOK, room)
}

// JoinRoom handles POST /api/party/:code/join
func (h *PartyHandler) JoinRoom(c *gin.Context) {
	code := roomCode(c)

	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	room, err := h.party.JoinRoom(ctx, code, req.UserID, req.UserName)
	if err != nil {
		writePartyError(c, err)
		return
	}

	respondRoom(c, http.StatusOK, room)
}

// LeaveRoom handles POST /api/party/:code/leave
func (h *PartyHandler) LeaveRoom(c *gin.Context) {
	code := roomCode(c)

	var req LeaveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	room, ended, err := h.party.LeaveRoom(ctx, code, req.UserID)
	if err != nil {
		writePartyError(c, err)
		return
	}

	resp, err := roomResponse(room)
	if err != nil {
		logger.Log.Error().Err(err).Str("code", code).Msg("Failed to decode room membership")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Party operation failed",
		})
		return
	}

	c.JSON(http.StatusOK, LeaveRoomResponse{
		Room:  resp,
		Ended: ended,
	})
}

// EndRoom handles POST /api/party/:code/end
func (h *PartyHandler) EndRoom(c *gin.Context) {
	code := roomCode(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.party.EndRoom(ctx, code); err != nil {
		writePartyError(c, err)
		return
	}

	c.JSON(http.StatusOK, EndRoomResponse{
		Message: "Party room ended",
	})
}

// SyncPlayback handles POST /api/party/:code/sync
func (h *PartyHandler) SyncPlayback(c *gin.Context) {
	code := roomCode(c)

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ack, err := h.party.SyncPlayback(ctx, code, req.Action, req.TimestampMs)
	if err != nil {
		writePartyError(c, err)
		return
	}

	c.JSON(http.StatusOK, ack)
}

// StartWatching handles POST /api/party/:code/start
func (h *PartyHandler) StartWatching(c *gin.Context) {
	code := roomCode(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	room, err := h.party.StartWatching(ctx, code)
	if err != nil {
		writePartyError(c, err)
		return
	}

	resp, err := roomResponse(room)
	if err != nil {
		logger.Log.Error().Err(err).Str("code", code).Msg("Failed to decode room membership")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Party operation failed",
		})
		return
	}

	c.JSON(http.StatusOK, StartWatchingResponse{
		Room:      resp,
		StartedAt: time.Now().UTC(),
	})
}

// roomCode normalizes the :code path parameter
func roomCode(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Param("code")))
}

// SetupPartyRoutes registers watch party routes
func SetupPartyRoutes(apiGroup *gin.RouterGroup, partyService *party.Service) {
	handler := NewPartyHandler(partyService)

	apiGroup.POST("/party/create", handler.CreateRoom)
	apiGroup.GET("/party/:code", handler.GetRoom)
	apiGroup.POST("/party/:code/join", handler.JoinRoom)
	apiGroup.POST("/party/:code/leave", handler.LeaveRoom)
	apiGroup.POST("/party/:code/end", handler.EndRoom)
	apiGroup.POST("/party/:code/sync", handler.SyncPlayback)
	apiGroup.POST("/party/:code/start", handler.StartWatching)
}
