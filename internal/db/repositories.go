package db

// Repositories provides access to all database repositories
type Repositories struct {
	MediaItems *MediaItemRepository
	PartyRooms *PartyRoomRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		MediaItems: NewMediaItemRepository(db),
		PartyRooms: NewPartyRoomRepository(db),
	}
}
