package schedapi

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse is returned when the service replies with a body that
// is not the JSON document the endpoint promises.
var ErrInvalidResponse = errors.New("Invalid response format from server")

// StatusError is a non-2xx reply. Message carries the server's error text
// when it sent one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Server returned %d", e.Code)
}

// IsNotFound reports whether err is a 404 reply.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == 404
}

// errorBody is the error envelope used across endpoints. Some handlers put
// the text in "error", others in "message".
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (b *errorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}
