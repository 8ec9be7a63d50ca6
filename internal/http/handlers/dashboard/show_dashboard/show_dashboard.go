package showdashboard

import (
	"errors"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	showdashboard "medportal/internal/core/services/show_dashboard"
	"medportal/internal/http/handlers/response"
	"net/http"
)

type Handler struct {
	service services.Service[showdashboard.Input, showdashboard.Result]
	title   string
}

func New(
	service services.Service[showdashboard.Input, showdashboard.Result],
	title string,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, title: title}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	_, err := h.service.Run(r.Context(), showdashboard.Input{})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUnauthenticated):
			response.RedirectToLogin(rw, r)
		case errors.Is(err, user.ErrForbidden):
			response.RenderForbidden(rw)
		default:
			response.RenderInternalError(rw)
		}
		return
	}
	response.RenderText(rw, h.title, http.StatusOK)
}
