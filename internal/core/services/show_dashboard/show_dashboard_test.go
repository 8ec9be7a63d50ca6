package showdashboard

import (
	"context"
	c "medportal/internal/core/domain/common"
	"medportal/internal/core/domain/logging"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services/auth"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDashboardIsRoleGated(t *testing.T) {
	log := logging.NewFakeLogger()
	users := user.NewFakeUserRepository()
	sessions := user.NewFakeSessionRepository()
	ctx := context.Background()

	doctor, err := users.Create(ctx, user.CreateUserInput{
		Name:         "Dr",
		Email:        c.Email("dr@x.com"),
		PasswordHash: user.PasswordHash("hash"),
		Role:         user.RoleDoctor,
		CreatedAt:    time.Now(),
	})
	require.Nil(t, err)
	require.Nil(t, sessions.Create(ctx, user.CreateSessionInput{UserID: doctor.ID, Token: "dr-token"}))

	for _, tc := range []struct {
		role    user.Role
		wantErr error
	}{
		{user.RoleDoctor, nil},
		{user.RoleAdmin, user.ErrForbidden},
		{user.RolePatient, user.ErrForbidden},
	} {
		service := auth.WithAuthentication(log, sessions, auth.WithRole(log, users, tc.role, New(log)))
		result, err := service.Run(auth.WithSessionToken(ctx, "dr-token"), Input{})
		if tc.wantErr != nil {
			require.ErrorIs(t, err, tc.wantErr, tc.role)
			continue
		}
		require.Nil(t, err)
		require.Equal(t, doctor.ID, result.User.ID)
	}
}
