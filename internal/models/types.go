package models

// EpisodeDurationMinutes is the assumed average episode length used when
// converting episode counts into watch time.
const EpisodeDurationMinutes = 20

// Watch status constants for media items
const (
	StatusWishlist  = "wishlist"
	StatusWatching  = "watching"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is a known watch status
func ValidStatus(s string) bool {
	switch s {
	case StatusWishlist, StatusWatching, StatusCompleted:
		return true
	}
	return false
}

// Playback sync actions for party rooms
const (
	SyncActionPlay  = "play"
	SyncActionPause = "pause"
	SyncActionSeek  = "seek"
)

// ValidSyncAction reports whether a is a known playback action
func ValidSyncAction(a string) bool {
	switch a {
	case SyncActionPlay, SyncActionPause, SyncActionSeek:
		return true
	}
	return false
}
