package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PartyMember is one participant in a party room
type PartyMember struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	IsHost   bool      `json:"is_host"`
	JoinedAt time.Time `json:"joined_at"`
}

// PartyRoom represents an ephemeral shared-viewing session keyed by a short code.
// Members are stored as a JSON array in a text column; Version guards membership
// writes with optimistic concurrency.
type PartyRoom struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Code        string    `json:"code" gorm:"type:text;not null;uniqueIndex;column:code"`
	MediaID     string    `json:"media_id" gorm:"type:text;not null;column:media_id"`
	MediaTitle  string    `json:"media_title" gorm:"type:text;not null;column:media_title"`
	MediaPoster *string   `json:"media_poster,omitempty" gorm:"type:text;column:media_poster"`
	HostID      string    `json:"host_id" gorm:"type:text;not null;column:host_id"`
	IsActive    bool      `json:"is_active" gorm:"type:integer;not null;default:1;column:is_active"`
	Version     int64     `json:"-" gorm:"type:integer;not null;default:0;column:version"`
	Members     string    `json:"-" gorm:"type:text;not null;default:'[]';column:members"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// TableName overrides the default table name
func (PartyRoom) TableName() string {
	return "party_rooms"
}

// MemberList decodes the JSON members column
func (r *PartyRoom) MemberList() ([]PartyMember, error) {
	if r.Members == "" {
		return []PartyMember{}, nil
	}
	var members []PartyMember
	if err := json.Unmarshal([]byte(r.Members), &members); err != nil {
		return nil, fmt.Errorf("failed to decode room members: %w", err)
	}
	return members, nil
}

// SetMemberList encodes members into the JSON members column
func (r *PartyRoom) SetMemberList(members []PartyMember) error {
	data, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("failed to encode room members: %w", err)
	}
	r.Members = string(data)
	return nil
}

// HasMember reports whether userID is present in the membership list
func (r *PartyRoom) HasMember(userID string) (bool, error) {
	members, err := r.MemberList()
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if m.ID == userID {
			return true, nil
		}
	}
	return false, nil
}
