package session

import (
	"medportal/internal/core/domain/user"

	"github.com/google/uuid"
)

type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// GenerateToken returns a random (version 4) UUID.
func (g *UUID) GenerateToken() user.SessionToken {
	return user.SessionToken(uuid.NewString())
}
