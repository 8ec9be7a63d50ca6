package logout

import (
	"errors"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	logout "medportal/internal/core/services/log_out"
	"medportal/internal/http/handlers/auth"
	"medportal/internal/http/handlers/response"
	"net/http"
)

type Handler struct {
	service services.Service[logout.Input, logout.Result]
	cookie  *auth.SessionCookie
}

func New(
	service services.Service[logout.Input, logout.Result],
	cookie *auth.SessionCookie,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	if cookie == nil {
		panic(e.NewNilArgumentError("cookie"))
	}
	return &Handler{service: service, cookie: cookie}
}

// ServeHTTP always expires the cookie, even when the session is already gone.
func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token, ok := h.cookie.ParseSessionToken(r)
	if ok {
		_, err := h.service.Run(r.Context(), logout.Input{Token: token})
		if err != nil && !errors.Is(err, user.ErrSessionDoesNotExist) {
			response.RenderInternalError(rw)
			return
		}
	}
	h.cookie.ClearSessionCookie(rw)
	response.RedirectToLogin(rw, r)
}
