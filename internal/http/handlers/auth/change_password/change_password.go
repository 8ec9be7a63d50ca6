package changepassword

import (
	"errors"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	changepassword "medportal/internal/core/services/change_password"
	"medportal/internal/http/handlers/request"
	"medportal/internal/http/handlers/response"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[changepassword.Input, changepassword.Result]
}

func New(
	service services.Service[changepassword.Input, changepassword.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (i *Input) FromForm(values url.Values) {
	i.CurrentPassword = values.Get("current_password")
	i.NewPassword = values.Get("new_password")
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.CurrentPassword, validation.Required, validation.Length(0, 256)),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(1, 72)),
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

	_, err := h.service.Run(
		r.Context(),
		changepassword.Input{
			CurrentPassword: user.RawPassword(input.CurrentPassword),
			NewPassword:     user.RawPassword(input.NewPassword),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUnauthenticated):
			response.RedirectToLogin(rw, r)
		case errors.Is(err, user.ErrForbidden):
			response.RenderForbidden(rw)
		case errors.Is(err, user.ErrInvalidCredentials):
			response.RenderError(rw, "Incorrect password", http.StatusBadRequest)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.RenderText(rw, "Password has been changed.", http.StatusOK)
}
