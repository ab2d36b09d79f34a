package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random UUID v4 used as a document id.
func NewID() string {
	return uuid.NewString()
}

// ShortID returns 12 random hex characters.
func ShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
