package party

import "errors"

// Custom party service errors
var (
	// ErrRoomNotFound indicates no active room matches the code
	ErrRoomNotFound = errors.New("party room not found or inactive")

	// ErrAlreadyMember indicates the user is already in the room
	ErrAlreadyMember = errors.New("user already in party room")

	// ErrMemberNotFound indicates the user is not in the room
	ErrMemberNotFound = errors.New("user not found in party room")

	// ErrInvalidSyncAction indicates an unknown playback action
	ErrInvalidSyncAction = errors.New("invalid playback action")

	// ErrCodeExhausted indicates room code generation kept colliding
	ErrCodeExhausted = errors.New("failed to generate a unique room code")

	// ErrConflictExhausted indicates a membership write kept losing the version race
	ErrConflictExhausted = errors.New("room membership changed too many times, try again")
)

// IsRoomNotFound checks if the error is a room not found error
func IsRoomNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound)
}

// IsAlreadyMember checks if the error is an already-member error
func IsAlreadyMember(err error) bool {
	return errors.Is(err, ErrAlreadyMember)
}

// IsMemberNotFound checks if the error is a member not found error
func IsMemberNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound)
}
