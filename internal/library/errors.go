package library

import "errors"

// Custom library service errors
var (
	// ErrMediaNotFound indicates the requested media item does not exist
	ErrMediaNotFound = errors.New("media item not found")

	// ErrDuplicateCatalogID indicates the catalog entry is already in the collection
	ErrDuplicateCatalogID = errors.New("media item already exists in collection")

	// ErrPlatformRequired indicates no platform was supplied on add
	ErrPlatformRequired = errors.New("platform is required")

	// ErrInvalidRating indicates a rating outside the 0-10 range
	ErrInvalidRating = errors.New("rating must be between 0 and 10")

	// ErrInvalidStatus indicates an unknown watch status value
	ErrInvalidStatus = errors.New("invalid watch status")

	// ErrCatalogDetailsNotFound indicates the catalog provider has no entry for the id
	ErrCatalogDetailsNotFound = errors.New("media item not found in catalog")
)

// IsMediaNotFound checks if the error is a media not found error
func IsMediaNotFound(err error) bool {
	return errors.Is(err, ErrMediaNotFound)
}

// IsDuplicateCatalogID checks if the error is a duplicate catalog id error
func IsDuplicateCatalogID(err error) bool {
	return errors.Is(err, ErrDuplicateCatalogID)
}

// IsValidation checks if the error is any of the validation errors
func IsValidation(err error) bool {
	return errors.Is(err, ErrPlatformRequired) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidStatus)
}
