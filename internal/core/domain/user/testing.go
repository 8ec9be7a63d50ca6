package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	c "medportal/internal/core/domain/common"
	"sync"
	"time"
)

type FakePasswordHasher struct {
	ReturnError bool
}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	if h.ReturnError {
		return PasswordHash(""), fmt.Errorf("could not hash password")
	}
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	hasher := md5.New()
	io.WriteString(hasher, string(password))
	return PasswordHash(fmt.Sprintf("%x", hasher.Sum(nil))) == hash
}

type FakeSessionTokenGenerator struct {
	Token string
}

func NewFakeSessionTokenGenerator(token string) *FakeSessionTokenGenerator {
	return &FakeSessionTokenGenerator{Token: token}
}

func (g *FakeSessionTokenGenerator) GenerateToken() SessionToken {
	return SessionToken(g.Token)
}

type FakePasswordResetTokenIssuer struct {
	Token       PasswordResetToken
	ExpiresAt   time.Time
	ReturnError bool
}

func NewFakePasswordResetTokenIssuer(token string, expiresAt time.Time) *FakePasswordResetTokenIssuer {
	return &FakePasswordResetTokenIssuer{Token: PasswordResetToken(token), ExpiresAt: expiresAt}
}

func (i *FakePasswordResetTokenIssuer) IssueToken() (PasswordResetToken, time.Time, error) {
	if i.ReturnError {
		return PasswordResetToken(""), time.Time{}, fmt.Errorf("could not issue password reset token")
	}
	return i.Token, i.ExpiresAt, nil
}

type FakePasswordResetTokenSender struct {
	Sent        []PasswordResetToken
	SentTo      []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetTokenSender() *FakePasswordResetTokenSender {
	return &FakePasswordResetTokenSender{}
}

func (s *FakePasswordResetTokenSender) SendPasswordResetToken(
	ctx context.Context,
	user User,
	token PasswordResetToken,
) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, token)
	s.SentTo = append(s.SentTo, user)
	return nil
}

func (s *FakePasswordResetTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakePasswordResetTokenSender) LastSent() PasswordResetToken {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

// FakeUserRepository serializes every call with one mutex, which stands in for
// the row-level atomicity of the real store.
type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input.Email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if u.Email == input.Email {
			return User{}, ErrEmailAlreadyExists
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	u = User{
		ID:           maxID + 1,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmailForUpdate(ctx context.Context, email c.Email) (User, error) {
	return r.GetByEmail(ctx, email)
}

func (r *FakeUserRepository) GetByValidPasswordResetToken(
	ctx context.Context,
	token PasswordResetToken,
	now time.Time,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, err := r.findByToken(token)
	if err != nil {
		return u, err
	}
	if !r.Users[ix].HasValidPasswordResetToken(token, now) {
		return u, ErrInvalidPasswordResetToken
	}
	return r.Users[ix], nil
}

func (r *FakeUserRepository) SetPasswordResetToken(
	ctx context.Context,
	id ID,
	token PasswordResetToken,
	expiresAt time.Time,
) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password reset token for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID != id && u.PasswordResetToken.IsPresent && u.PasswordResetToken.Value == token {
			return ErrDuplicatePasswordResetToken
		}
	}
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordResetToken = c.NewOptional(token, true)
			r.Users[ix].PasswordResetTokenExpiresAt = c.NewOptional(expiresAt, true)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) UpdatePassword(ctx context.Context, id ID, password PasswordHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not update password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.setPassword(ix, password)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) ResetPasswordByToken(
	ctx context.Context,
	token PasswordResetToken,
	now time.Time,
	password PasswordHash,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not reset password")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, err := r.findByToken(token)
	if err != nil {
		return u, err
	}
	if !r.Users[ix].HasValidPasswordResetToken(token, now) {
		return u, ErrInvalidPasswordResetToken
	}
	r.setPassword(ix, password)
	return r.Users[ix], nil
}

func (r *FakeUserRepository) findByToken(token PasswordResetToken) (int, error) {
	found := -1
	for ix, u := range r.Users {
		if !u.PasswordResetToken.IsPresent || u.PasswordResetToken.Value != token {
			continue
		}
		if found != -1 {
			return -1, ErrDuplicatePasswordResetToken
		}
		found = ix
	}
	if found == -1 {
		return -1, ErrInvalidPasswordResetToken
	}
	return found, nil
}

func (r *FakeUserRepository) setPassword(ix int, password PasswordHash) {
	r.Users[ix].PasswordHash = password
	r.Users[ix].PasswordResetToken = c.None[PasswordResetToken]()
	r.Users[ix].PasswordResetTokenExpiresAt = c.None[time.Time]()
}

type FakeSessionRepository struct {
	UserIdByToken map[SessionToken]ID
	ReturnError   bool
	lock          sync.Mutex
}

func NewFakeSessionRepository() *FakeSessionRepository {
	return &FakeSessionRepository{
		UserIdByToken: make(map[SessionToken]ID),
	}
}

func (r *FakeSessionRepository) Create(ctx context.Context, input CreateSessionInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not create session for user %d", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.UserIdByToken[input.Token] = input.UserID
	return nil
}

func (r *FakeSessionRepository) GetUserID(ctx context.Context, token SessionToken) (ID, error) {
	if r.ReturnError {
		return ID(0), fmt.Errorf("could not get session")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	userID, ok := r.UserIdByToken[token]
	if !ok {
		return ID(0), ErrSessionDoesNotExist
	}
	return userID, nil
}

func (r *FakeSessionRepository) Delete(ctx context.Context, token SessionToken) (ID, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	userID, ok := r.UserIdByToken[token]
	if !ok {
		return ID(0), ErrSessionDoesNotExist
	}
	delete(r.UserIdByToken, token)
	return userID, nil
}

func (r *FakeSessionRepository) Count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.UserIdByToken)
}
