package services

import (
	"medportal/internal/app/deps"
	drl "medportal/internal/core/domain/rate_limiter"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	"medportal/internal/core/services/auth"
	changepassword "medportal/internal/core/services/change_password"
	loginwithemail "medportal/internal/core/services/log_in_with_email"
	logout "medportal/internal/core/services/log_out"
	ratelimiting "medportal/internal/core/services/rate_limiting"
	resetpassword "medportal/internal/core/services/reset_password"
	sendpasswordresettoken "medportal/internal/core/services/send_password_reset_token"
	showdashboard "medportal/internal/core/services/show_dashboard"
	signupwithemail "medportal/internal/core/services/sign_up_with_email"
	validatepasswordresettoken "medportal/internal/core/services/validate_password_reset_token"
	"medportal/internal/implementations/metrics"
)

const (
	EVENT_SIGN_UP                   = "sign_up"
	EVENT_LOG_IN                    = "log_in"
	EVENT_LOG_OUT                   = "log_out"
	EVENT_SEND_PASSWORD_RESET_TOKEN = "send_password_reset_token"
	EVENT_RESET_PASSWORD            = "reset_password"
	EVENT_CHANGE_PASSWORD           = "change_password"
)

var (
	LogInRateLimit              = drl.Limit{Value: 10, Interval: drl.Hour}
	SendPasswordResetTokenLimit = drl.Limit{Value: 3, Interval: drl.Hour}
)

type Services struct {
	SignUpWithEmail            services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail             services.Service[loginwithemail.Input, loginwithemail.Result]
	LogOut                     services.Service[logout.Input, logout.Result]
	SendPasswordResetToken     services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ValidatePasswordResetToken services.Service[validatepasswordresettoken.Input, validatepasswordresettoken.Result]
	ResetPassword              services.Service[resetpassword.Input, resetpassword.Result]
	ChangePassword             services.Service[changepassword.Input, changepassword.Result]

	ShowAdminDashboard   services.Service[showdashboard.Input, showdashboard.Result]
	ShowDoctorDashboard  services.Service[showdashboard.Input, showdashboard.Result]
	ShowPatientDashboard services.Service[showdashboard.Input, showdashboard.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SignUpWithEmail = metrics.WithAuthEvents(
		deps.Metrics,
		EVENT_SIGN_UP,
		signupwithemail.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.SessionRepository,
			deps.PasswordHasher,
			deps.UserSessionTokenGenerator,
			deps.Now,
		),
	)
	s.LogInWithEmail = metrics.WithAuthEvents(
		deps.Metrics,
		EVENT_LOG_IN,
		ratelimiting.WithRateLimiting(
			deps.Logger,
			deps.RateLimiter,
			LogInRateLimit,
			loginwithemail.New(
				deps.Logger,
				deps.UserRepository,
				deps.SessionRepository,
				deps.PasswordHasher,
				deps.UserSessionTokenGenerator,
				deps.Now,
			),
		),
	)
	s.LogOut = metrics.WithAuthEvents(
		deps.Metrics,
		EVENT_LOG_OUT,
		logout.New(deps.Logger, deps.SessionRepository),
	)
	s.SendPasswordResetToken = metrics.WithAuthEvents(
		deps.Metrics,
		EVENT_SEND_PASSWORD_RESET_TOKEN,
		ratelimiting.WithRateLimiting(
			deps.Logger,
			deps.RateLimiter,
			SendPasswordResetTokenLimit,
			sendpasswordresettoken.NewWithTokenSending(
				deps.Logger,
				deps.PasswordResetTokenSender,
				sendpasswordresettoken.New(
					deps.Logger,
					deps.UnitOfWork,
					deps.PasswordResetTokenIssuer,
				),
			),
		),
	)
	s.ValidatePasswordResetToken = validatepasswordresettoken.New(
		deps.Logger,
		deps.UserRepository,
		deps.Now,
	)
	s.ResetPassword = metrics.WithAuthEvents(
		deps.Metrics,
		EVENT_RESET_PASSWORD,
		resetpassword.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.Now,
		),
	)
	s.ChangePassword = metrics.WithAuthEvents(
		deps.Metrics,
		EVENT_CHANGE_PASSWORD,
		auth.WithAuthentication(
			deps.Logger,
			deps.SessionRepository,
			auth.WithUser(
				deps.Logger,
				deps.UserRepository,
				changepassword.New(deps.Logger, deps.UserRepository, deps.PasswordHasher),
			),
		),
	)

	s.ShowAdminDashboard = newDashboard(deps, user.RoleAdmin)
	s.ShowDoctorDashboard = newDashboard(deps, user.RoleDoctor)
	s.ShowPatientDashboard = newDashboard(deps, user.RolePatient)

	return s
}

func newDashboard(deps *deps.Deps, role user.Role) services.Service[showdashboard.Input, showdashboard.Result] {
	return auth.WithAuthentication(
		deps.Logger,
		deps.SessionRepository,
		auth.WithRole(
			deps.Logger,
			deps.UserRepository,
			role,
			showdashboard.New(deps.Logger),
		),
	)
}
