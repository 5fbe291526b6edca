package repositories

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a primary key
func NewID() string {
	return uuid.NewString()
}

// ValidateID checks that id is a canonical UUID
func ValidateID(op, entity, id string) error {
	if strings.TrimSpace(id) == "" {
		return InvalidIDError(op, entity, id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return InvalidIDError(op, entity, id)
	}
	return nil
}
