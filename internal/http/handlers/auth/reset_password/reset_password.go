package resetpassword

import (
	"errors"
	"html/template"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	resetpassword "medportal/internal/core/services/reset_password"
	validatepasswordresettoken "medportal/internal/core/services/validate_password_reset_token"
	"medportal/internal/http/handlers/request"
	"medportal/internal/http/handlers/response"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	TOKEN_URL_PARAM           = "token"
	MSG_INVALID_TOKEN         = "Invalid or expired token"
	MSG_PASSWORD_RESET        = "Password has been successfully reset!"
	MSG_PASSWORD_RESET_FAILED = "Error resetting password"
)

var formTemplate = template.Must(template.New("reset-password").Parse(`<!DOCTYPE html>
<html>
<head><title>Reset Password</title></head>
<body>
<h1>Reset Password</h1>
<form method="post" action="/reset-password/{{.Token}}">
<label for="password">New password</label>
<input type="password" id="password" name="password" required>
<button type="submit">Reset Password</button>
</form>
</body>
</html>
`))

type formData struct {
	Token string
}

type FormHandler struct {
	service services.Service[validatepasswordresettoken.Input, validatepasswordresettoken.Result]
}

// NewForm serves the reset form for a token that is still valid.
func NewForm(
	service services.Service[validatepasswordresettoken.Input, validatepasswordresettoken.Result],
) *FormHandler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &FormHandler{service: service}
}

func (h *FormHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, TOKEN_URL_PARAM)
	_, err := h.service.Run(
		r.Context(),
		validatepasswordresettoken.Input{Token: user.PasswordResetToken(token)},
	)
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		response.RenderError(rw, MSG_INVALID_TOKEN, http.StatusBadRequest)
		return
	}
	if err != nil {
		response.RenderError(rw, "Error processing password reset request", http.StatusInternalServerError)
		return
	}
	response.RenderHTML(rw, formTemplate, formData{Token: token}, http.StatusOK)
}

type Handler struct {
	service services.Service[resetpassword.Input, resetpassword.Result]
}

func New(
	service services.Service[resetpassword.Input, resetpassword.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Password string `json:"password"`
}

func (i *Input) FromForm(values url.Values) {
	i.Password = values.Get("password")
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Password, validation.Required, validation.Length(1, 72)),
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
		resetpassword.Input{
			Token:       user.PasswordResetToken(chi.URLParam(r, TOKEN_URL_PARAM)),
			NewPassword: user.RawPassword(input.Password),
		},
	)
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		response.RenderError(rw, MSG_INVALID_TOKEN, http.StatusBadRequest)
		return
	}
	if err != nil {
		response.RenderError(rw, MSG_PASSWORD_RESET_FAILED, http.StatusInternalServerError)
		return
	}
	response.RenderText(rw, MSG_PASSWORD_RESET, http.StatusOK)
}
