package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new random identifier for listings, bids and users.
func GenerateID() string {
	return uuid.NewString()
}
