package user

import "time"

type SessionToken string

func (t SessionToken) String() string {
	return "***"
}

type SessionTokenGenerator interface {
	GenerateToken() SessionToken
}

type CreateSessionInput struct {
	UserID    ID
	Token     SessionToken
	CreatedAt time.Time
}
