package app

import (
	"medportal/internal/app/deps"
	"medportal/internal/app/services"
	changepassword "medportal/internal/http/handlers/auth/change_password"
	loginwithemail "medportal/internal/http/handlers/auth/log_in_with_email"
	logout "medportal/internal/http/handlers/auth/log_out"
	resetpassword "medportal/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "medportal/internal/http/handlers/auth/send_password_reset_token"
	signupwithemail "medportal/internal/http/handlers/auth/sign_up_with_email"
	showdashboard "medportal/internal/http/handlers/dashboard/show_dashboard"
	"medportal/internal/http/handlers/response"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(deps *deps.Deps, s *services.Services) http.Handler {
	cookie := deps.SessionCookie

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	router.Use(deps.Metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Use(cookie.SetSessionTokenToContext)

	router.Method(http.MethodPost, "/register", signupwithemail.New(s.SignUpWithEmail, cookie))
	router.Method(http.MethodPost, "/login", loginwithemail.New(s.LogInWithEmail, cookie))
	router.Method(http.MethodGet, "/logout", logout.New(s.LogOut, cookie))
	router.Method(
		http.MethodPost,
		"/forgot-password",
		sendpasswordresettoken.New(s.SendPasswordResetToken, deps.Config.IsTestMode),
	)
	router.Method(http.MethodGet, "/reset-password/{token}", resetpassword.NewForm(s.ValidatePasswordResetToken))
	router.Method(http.MethodPost, "/reset-password/{token}", resetpassword.New(s.ResetPassword))

	router.Method(http.MethodGet, "/admin", showdashboard.New(s.ShowAdminDashboard, "Admin Dashboard"))
	router.Method(http.MethodGet, "/doctor", showdashboard.New(s.ShowDoctorDashboard, "Doctor Dashboard"))
	router.Method(http.MethodGet, "/patient", showdashboard.New(s.ShowPatientDashboard, "Patient Dashboard"))
	router.Method(http.MethodPost, "/profile/password", changepassword.New(s.ChangePassword))

	router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	router.Get("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		response.RenderText(rw, "ok", http.StatusOK)
	})

	return router
}

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	return &http.Server{
		Handler: NewRouter(deps, s),
		Addr:    deps.Config.Address(),
	}
}
