package signupwithemail

import (
	"errors"
	c "medportal/internal/core/domain/common"
	e "medportal/internal/core/domain/errors"
	ratelimiter "medportal/internal/core/domain/rate_limiter"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	signupwithemail "medportal/internal/core/services/sign_up_with_email"
	"medportal/internal/http/handlers/auth"
	"medportal/internal/http/handlers/request"
	"medportal/internal/http/handlers/response"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[signupwithemail.Input, signupwithemail.Result]
	cookie  *auth.SessionCookie
}

func New(
	service services.Service[signupwithemail.Input, signupwithemail.Result],
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
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (i *Input) FromForm(values url.Values) {
	i.Name = values.Get("name")
	i.Email = values.Get("email")
	i.Password = values.Get("password")
	i.Role = values.Get("role")
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Length(0, 256)),
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
		validation.Field(&i.Password, validation.Required, validation.Length(1, 72)),
		validation.Field(&i.Role, validation.In("admin", "doctor", "patient")),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := request.Decode(rw, r, &input); err != nil {
		response.RenderError(rw, response.MSG_INVALID_INPUT, http.StatusBadRequest)
		return
	}
	input.Email = string(c.NewEmail(input.Email))
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	role, err := user.ParseRole(input.Role)
	if err != nil {
		response.RenderError(rw, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.service.Run(
		r.Context(),
		signupwithemail.Input{
			Name:     input.Name,
			Email:    c.NewEmail(input.Email),
			Password: user.RawPassword(input.Password),
			Role:     c.NewOptional(role, true),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailAlreadyExists):
			response.RenderError(rw, "User already exists", http.StatusBadRequest)
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	h.cookie.SetSessionCookie(rw, result.Token)
	response.Redirect(rw, r, result.User.Role.DashboardPath())
}
