package client

import (
	"net/http"

	"github.com/alloon/photi-go/conf"
	"github.com/google/uuid"
)

// AddDefaultHeader sets the User-Agent and, unless the caller already chose
// one, a fresh X-Request-Id.
func AddDefaultHeader(headers http.Header) error {
	headers.Set(conf.HeaderUserAgent, UserAgent())
	return addHttpHeaderRequestID(headers)
}

func addHttpHeaderRequestID(headers http.Header) error {
	if headers.Get(conf.HeaderRequestID) != "" {
		return nil
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return err
	}
	headers.Set(conf.HeaderRequestID, id.String())
	return nil
}
