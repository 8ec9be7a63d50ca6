package session

import (
	"medportal/internal/core/domain/user"
	"testing"

	"github.com/google/uuid"
)

func TestSessionTokenGenerator(t *testing.T) {
	generator := NewUUID()
	tokens := make(map[user.SessionToken]struct{})
	for i := 0; i < 100; i++ {
		token := generator.GenerateToken()
		if string(token) == "" {
			t.Fatal("token must not be empty")
		}
		if _, err := uuid.Parse(string(token)); err != nil {
			t.Fatalf("token must be a valid uuid: %v", err)
		}
		if _, ok := tokens[token]; ok {
			t.Fatalf("token already exists (%d generated)", len(tokens))
		}
		tokens[token] = struct{}{}
	}
}
