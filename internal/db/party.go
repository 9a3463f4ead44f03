package db

import (
	"context"
	"fmt"

	"moviemate/internal/models"
)

// PartyRoomRepository handles database operations for party rooms
type PartyRoomRepository struct {
	db *DB
}

// NewPartyRoomRepository creates a new party room repository
func NewPartyRoomRepository(db *DB) *PartyRoomRepository {
	return &PartyRoomRepository{db: db}
}

// Create inserts a new party room.
// The code column carries a unique index; a collision surfaces as ErrDuplicate
// so callers can retry with a fresh code.
func (r *PartyRoomRepository) Create(ctx context.Context, room *models.PartyRoom) error {
	result := r.db.WithContext(ctx).Create(room)
	if result.Error != nil {
		return fmt.Errorf("failed to create party room: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByCode retrieves a room by its code regardless of active state
func (r *PartyRoomRepository) GetByCode(ctx context.Context, code string) (*models.PartyRoom, error) {
	var room models.PartyRoom
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&room)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &room, nil
}

// GetActiveByCode retrieves an active room by its code.
// Inactive rooms are invisible to this lookup.
func (r *PartyRoomRepository) GetActiveByCode(ctx context.Context, code string) (*models.PartyRoom, error) {
	var room models.PartyRoom
	result := r.db.WithContext(ctx).Where("code = ? AND is_active = ?", code, true).First(&room)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &room, nil
}

// SaveMembership writes the room's membership and active flag guarded by the
// version the room was read at. RowsAffected == 0 means another writer got
// there first; ErrConflict tells the caller to re-read and retry.
func (r *PartyRoomRepository) SaveMembership(ctx context.Context, room *models.PartyRoom) error {
	result := r.db.WithContext(ctx).Model(&models.PartyRoom{}).
		Where("code = ? AND version = ?", room.Code, room.Version).
		Updates(map[string]interface{}{
			"members":   room.Members,
			"is_active": room.IsActive,
			"version":   room.Version + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update party room: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	room.Version++
	return nil
}

// Deactivate flips is_active to false for the room with the given code.
// Idempotent for rooms that are already inactive.
func (r *PartyRoomRepository) Deactivate(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Model(&models.PartyRoom{}).
		Where("code = ?", code).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate party room: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
