package sendpasswordresettoken

import (
	"errors"
	c "medportal/internal/core/domain/common"
	e "medportal/internal/core/domain/errors"
	ratelimiter "medportal/internal/core/domain/rate_limiter"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	service "medportal/internal/core/services/send_password_reset_token"
	"medportal/internal/http/handlers/request"
	"medportal/internal/http/handlers/response"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
)

const TEST_TOKEN_HEADER = "x-test-password-reset-token"

type Handler struct {
	service    services.Service[service.Input, service.Result]
	isTestMode bool
}

func New(
	service services.Service[service.Input, service.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromForm(values url.Values) {
	i.Email = values.Get("email")
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, validation.Length(0, 512)),
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
		service.Input{Email: c.NewEmail(input.Email)},
	)
	if h.isTestMode && result.Token != "" {
		rw.Header().Set(TEST_TOKEN_HEADER, string(result.Token))
	}
	if err != nil {
		switch {
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, "No user found with this email", http.StatusBadRequest)
		default:
			response.RenderError(rw, "Error processing password reset request", http.StatusInternalServerError)
		}
		return
	}

	response.RenderText(rw, "Password reset instructions have been sent to your email.", http.StatusOK)
}
