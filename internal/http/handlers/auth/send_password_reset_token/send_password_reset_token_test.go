package sendpasswordresettoken

import (
	"context"
	"fmt"
	ratelimiter "medportal/internal/core/domain/rate_limiter"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	service "medportal/internal/core/services/send_password_reset_token"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, isTestMode bool, result service.Result, err error) *httptest.ResponseRecorder {
	t.Helper()
	handler := New(
		services.ServiceFunc[service.Input, service.Result](
			func(ctx context.Context, input service.Input) (service.Result, error) {
				return result, err
			},
		),
		isTestMode,
	)
	r := httptest.NewRequest(http.MethodPost, "/forgot-password", strings.NewReader("email=a%40x.com"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, r)
	return rr
}

func TestSuccess(t *testing.T) {
	rr := serve(t, false, service.Result{Token: "token"}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Password reset instructions have been sent to your email.", rr.Body.String())
	require.Equal(t, "", rr.Header().Get(TEST_TOKEN_HEADER))
}

func TestTokenHeaderInTestMode(t *testing.T) {
	rr := serve(t, true, service.Result{Token: "token"}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "token", rr.Header().Get(TEST_TOKEN_HEADER))
}

func TestErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{user.ErrUserDoesNotExist, http.StatusBadRequest},
		{ratelimiter.ErrRateLimitExceeded, http.StatusTooManyRequests},
		{fmt.Errorf("%w: %w", user.ErrPasswordResetTokenNotSent, context.DeadlineExceeded), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := serve(t, false, service.Result{}, tc.err)
		require.Equal(t, tc.status, rr.Code, tc.err.Error())
	}
}

func TestTokenHeaderIsSetWhenSendingFails(t *testing.T) {
	rr := serve(t, true, service.Result{Token: "token"}, user.ErrPasswordResetTokenNotSent)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "token", rr.Header().Get(TEST_TOKEN_HEADER))
}

func TestEmptyEmail(t *testing.T) {
	handler := New(
		services.ServiceFunc[service.Input, service.Result](
			func(ctx context.Context, input service.Input) (service.Result, error) {
				t.Fatal("service must not be called")
				return service.Result{}, nil
			},
		),
		false,
	)
	r := httptest.NewRequest(http.MethodPost, "/forgot-password", strings.NewReader("email="))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, r)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}
