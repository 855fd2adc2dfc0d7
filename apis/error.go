package apis

import (
	"fmt"
	"net/http"

	"github.com/alloon/photi-go/client"
)

var (
	ErrInvalidArgs = &client.ErrorInfo{Code: http.StatusBadRequest, Err: "invalid args"}
	ErrNoToken     = &client.ErrorInfo{Code: http.StatusBadGateway, Err: "response carries no token"}
)

func ErrInfo(code int, err string) *client.ErrorInfo {
	return &client.ErrorInfo{
		Code: code,
		Err:  err,
	}
}

// MissingRequiredFieldError is returned before any request is made when a
// Photi call is set up without a value it cannot work without.
type MissingRequiredFieldError struct {
	Call  string
	Field string
}

func (err MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: %s is required", err.Call, err.Field)
}
