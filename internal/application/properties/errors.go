package properties

import "errors"

var (
	ErrNotFound          = errors.New("Property not found")
	ErrNotOwner          = errors.New("Unauthorized property access")
	ErrInvalidType       = errors.New("Invalid property type")
	ErrInvalidStatus     = errors.New("Invalid property status")
	ErrNegativePrice     = errors.New("Price must be non-negative")
	ErrNegativeRooms     = errors.New("Bedrooms and bathrooms must be non-negative")
	ErrInvalidArea       = errors.New("Area must be positive")
	ErrNoChanges         = errors.New("No valid changes provided")
	ErrInvalidTransition = errors.New("Invalid status transition")
)

// PublishBlockedError rejects a draft -> published transition that failed the
// publish gate. Carries the missing field names for the client.
type PublishBlockedError struct {
	MissingFields []string
}

func (e *PublishBlockedError) Error() string {
	return "Property cannot be published: missing required fields"
}
