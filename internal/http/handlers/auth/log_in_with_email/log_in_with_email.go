package loginwithemail

import (
	"errors"
	c "medportal/internal/core/domain/common"
	e "medportal/internal/core/domain/errors"
	ratelimiter "medportal/internal/core/domain/rate_limiter"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	loginwithemail "medportal/internal/core/services/log_in_with_email"
	"medportal/internal/http/handlers/auth"
	"medportal/internal/http/handlers/request"
	"medportal/internal/http/handlers/response"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[loginwithemail.Input, loginwithemail.Result]
	cookie  *auth.SessionCookie
}

func New(
	service services.Service[loginwithemail.Input, loginwithemail.Result],
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

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (i *Input) FromForm(values url.Values) {
	i.Email = values.Get("email")
	i.Password = values.Get("password")
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, validation.Length(0, 512)),
		validation.Field(&i.Password, validation.Required, validation.Length(0, 512)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := request.Decode(rw, r, &input); err != nil {
		response.RenderError(rw, response.MSG_INVALID_INPUT, http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		loginwithemail.Input{Email: c.NewEmail(input.Email), Password: user.RawPassword(input.Password)},
	)
	if err != nil {
		switch {
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, "No user found with this email", http.StatusBadRequest)
		case errors.Is(err, user.ErrInvalidCredentials):
			response.RenderError(rw, "Incorrect password", http.StatusBadRequest)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	h.cookie.SetSessionCookie(rw, result.Token)
	response.Redirect(rw, r, result.User.Role.DashboardPath())
}
