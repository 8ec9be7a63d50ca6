package response

import (
	"encoding/json"
	"html/template"
	"net/http"
)

const (
	MSG_INTERNAL_ERROR      = "internal error"
	MSG_RATE_LIMIT_EXCEEDED = "rate limit exceeded"
	MSG_ACCESS_DENIED       = "Access denied"
	MSG_INVALID_INPUT       = "invalid request data"
)

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, MSG_INTERNAL_ERROR, http.StatusInternalServerError)
}

func RenderRateLimitExceeded(rw http.ResponseWriter) {
	RenderError(rw, MSG_RATE_LIMIT_EXCEEDED, http.StatusTooManyRequests)
}

func RenderForbidden(rw http.ResponseWriter) {
	RenderError(rw, MSG_ACCESS_DENIED, http.StatusForbidden)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	RenderText(rw, msg, status)
}

func RenderText(rw http.ResponseWriter, msg string, status int) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rw.WriteHeader(status)
	rw.Write([]byte(msg))
}

// Render writes res as JSON. Validation errors are rendered this way so every
// invalid field is reported.
func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}

func RenderHTML(rw http.ResponseWriter, tmpl *template.Template, data interface{}, status int) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(status)
	tmpl.Execute(rw, data)
}

// Redirect answers with 302 Found, the code browsers follow with GET.
func Redirect(rw http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(rw, r, path, http.StatusFound)
}

func RedirectToLogin(rw http.ResponseWriter, r *http.Request) {
	Redirect(rw, r, "/login")
}
