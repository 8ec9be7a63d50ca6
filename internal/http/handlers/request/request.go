package request

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
)

const MAX_BODY_SIZE = 1 << 16

type Input interface {
	FromForm(values url.Values)
}

// Decode fills input from a JSON body or, for any other content type, from
// the url-encoded form.
func Decode(rw http.ResponseWriter, r *http.Request, input Input) error {
	r.Body = http.MaxBytesReader(rw, r.Body, MAX_BODY_SIZE)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return json.NewDecoder(r.Body).Decode(input)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	input.FromForm(r.PostForm)
	return nil
}
