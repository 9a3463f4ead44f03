// Package party manages the lifecycle of synchronized-viewing rooms.
//
// A room is ACTIVE from creation until the host leaves or it is ended
// explicitly; both transitions are terminal. Non-host joins and leaves
// mutate membership without changing state. Membership writes are guarded
// by an optimistic version column and retried on conflict, so concurrent
// joins cannot overwrite each other.
package party

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"moviemate/internal/db"
	"moviemate/internal/logger"
	"moviemate/internal/models"
)

const (
	maxCodeAttempts    = 5
	maxConflictRetries = 3
)

// Service handles business logic for party room operations
type Service struct {
	repos *db.Repositories
}

// NewService creates a new party service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{repos: repos}
}

// SyncAck acknowledges a playback sync event
type SyncAck struct {
	RoomCode    string `json:"room_code"`
	Action      string `json:"action"`
	TimestampMs int64  `json:"timestamp"`
}

// CreateRoom creates an active room for one media item with the host as the
// only member. Code collisions are resolved by the unique index plus retry
// with a fresh code.
func (s *Service) CreateRoom(ctx context.Context, mediaID, mediaTitle string, mediaPoster *string, hostID string) (*models.PartyRoom, error) {
	host := models.PartyMember{
		ID:       hostID,
		Name:     "Host",
		IsHost:   true,
		JoinedAt: time.Now().UTC(),
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		room := &models.PartyRoom{
			ID:          uuid.New(),
			Code:        newRoomCode(),
			MediaID:     mediaID,
			MediaTitle:  mediaTitle,
			MediaPoster: mediaPoster,
			HostID:      hostID,
			IsActive:    true,
			CreatedAt:   time.Now().UTC(),
		}
		if err := room.SetMemberList([]models.PartyMember{host}); err != nil {
			return nil, err
		}

		err := s.repos.PartyRooms.Create(ctx, room)
		if err == nil {
			logger.Log.Info().
				Str("code", room.Code).
				Str("media_title", mediaTitle).
				Str("host_id", hostID).
				Msg("Party room created")
			return room, nil
		}
		if db.IsDuplicate(err) {
			logger.Log.Warn().
				Str("code", room.Code).
				Int("attempt", attempt+1).
				Msg("Room code collision, retrying")
			continue
		}
		logger.Log.Error().Err(err).Msg("Failed to create party room")
		return nil, fmt.Errorf("failed to create party room: %w", err)
	}

	return nil, ErrCodeExhausted
}

// JoinRoom adds a non-host member to an active room. Joining twice with the
// same user id fails with ErrAlreadyMember and leaves membership unchanged.
func (s *Service) JoinRoom(ctx context.Context, code, userID, userName string) (*models.PartyRoom, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		room, err := s.getActive(ctx, code)
		if err != nil {
			return nil, err
		}

		members, err := room.MemberList()
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m.ID == userID {
				return nil, ErrAlreadyMember
			}
		}

		members = append(members, models.PartyMember{
			ID:       userID,
			Name:     userName,
			IsHost:   false,
			JoinedAt: time.Now().UTC(),
		})
		if err := room.SetMemberList(members); err != nil {
			return nil, err
		}

		err = s.repos.PartyRooms.SaveMembership(ctx, room)
		if err == nil {
			logger.Log.Info().
				Str("code", code).
				Str("user_id", userID).
				Str("user_name", userName).
				Msg("User joined party room")
			return room, nil
		}
		if db.IsConflict(err) {
			continue
		}
		return nil, fmt.Errorf("failed to join party room: %w", err)
	}

	return nil, ErrConflictExhausted
}

// LeaveRoom removes a user from an active room. The host leaving ends the
// room and freezes membership as-is; a regular member leaving is filtered
// out and the room stays active. The asymmetry is intentional.
// The returned bool reports whether the room ended.
func (s *Service) LeaveRoom(ctx context.Context, code, userID string) (*models.PartyRoom, bool, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		room, err := s.getActive(ctx, code)
		if err != nil {
			return nil, false, err
		}

		members, err := room.MemberList()
		if err != nil {
			return nil, false, err
		}

		remaining := make([]models.PartyMember, 0, len(members))
		found := false
		for _, m := range members {
			if m.ID == userID {
				found = true
				continue
			}
			remaining = append(remaining, m)
		}
		if !found {
			return nil, false, ErrMemberNotFound
		}

		ended := false
		if userID == room.HostID {
			// Membership is frozen as it stood when the host left
			room.IsActive = false
			ended = true
		} else {
			if err := room.SetMemberList(remaining); err != nil {
				return nil, false, err
			}
		}

		err = s.repos.PartyRooms.SaveMembership(ctx, room)
		if err == nil {
			if ended {
				logger.Log.Info().Str("code", code).Msg("Party room ended by host")
			} else {
				logger.Log.Info().
					Str("code", code).
					Str("user_id", userID).
					Msg("User left party room")
			}
			return room, ended, nil
		}
		if db.IsConflict(err) {
			continue
		}
		return nil, false, fmt.Errorf("failed to leave party room: %w", err)
	}

	return nil, false, ErrConflictExhausted
}

// EndRoom flips the room inactive regardless of its current state.
// Only a missing room is an error.
func (s *Service) EndRoom(ctx context.Context, code string) error {
	if err := s.repos.PartyRooms.Deactivate(ctx, code); err != nil {
		if db.IsNotFound(err) {
			return ErrRoomNotFound
		}
		logger.Log.Error().Err(err).Str("code", code).Msg("Failed to end party room")
		return fmt.Errorf("failed to end party room: %w", err)
	}

	logger.Log.Info().Str("code", code).Msg("Party room ended")
	return nil
}

// GetRoom retrieves an active room. Ended rooms are invisible here.
func (s *Service) GetRoom(ctx context.Context, code string) (*models.PartyRoom, error) {
	return s.getActive(ctx, code)
}

// SyncPlayback validates and acknowledges a play/pause/seek event in an
// active room. There is no fan-out to other members; the event is logged.
func (s *Service) SyncPlayback(ctx context.Context, code, action string, timestampMs int64) (*SyncAck, error) {
	if !models.ValidSyncAction(action) {
		return nil, ErrInvalidSyncAction
	}

	if _, err := s.getActive(ctx, code); err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("code", code).
		Str("action", action).
		Int64("timestamp_ms", timestampMs).
		Msg("Playback sync")

	return &SyncAck{
		RoomCode:    code,
		Action:      action,
		TimestampMs: timestampMs,
	}, nil
}

// StartWatching marks the beginning of the shared viewing session for an
// active room and returns the room for acknowledgment.
func (s *Service) StartWatching(ctx context.Context, code string) (*models.PartyRoom, error) {
	room, err := s.getActive(ctx, code)
	if err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("code", code).
		Str("media_title", room.MediaTitle).
		Msg("Party watching session started")

	return room, nil
}

// getActive fetches an active room by code
func (s *Service) getActive(ctx context.Context, code string) (*models.PartyRoom, error) {
	room, err := s.repos.PartyRooms.GetActiveByCode(ctx, code)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get party room: %w", err)
	}
	return room, nil
}
