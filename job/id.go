package job

import "github.com/google/uuid"

// ID is a Job's opaque, universally unique identifier. Two Jobs never share
// an ID.
type ID = uuid.UUID

// NewID generates a fresh random (v4) ID.
func NewID() ID {
	return uuid.New()
}
