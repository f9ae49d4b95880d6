package predictor

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks transport failures: the API could not be reached
	// or the request timed out.
	ErrUnavailable = errors.New("prediction API unavailable")
	// ErrInvalidResponse marks a 2xx response whose body could not be used.
	ErrInvalidResponse = errors.New("invalid prediction API response")
)

// APIError is a non-2xx response from the prediction API. Message and
// Detail come from the `error` and `detalle` fields of the error body.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "no error message"
	}
	if e.Detail != "" {
		return fmt.Sprintf("prediction API returned %d: %s (%s)", e.StatusCode, msg, e.Detail)
	}
	return fmt.Sprintf("prediction API returned %d: %s", e.StatusCode, msg)
}

// errorBody is the JSON shape of a failed request.
type errorBody struct {
	Error   string `json:"error"`
	Detail  string `json:"detalle"`
	Message string `json:"mensaje"`
}

// UserMessage picks the message shown for err: the API's own error text,
// fallback when the API sent none, or connection (already formatted) when
// the API could not be reached or answered garbage. Other errors get
// fallback.
func UserMessage(err error, fallback, connection string) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrInvalidResponse):
		return connection
	default:
		return fallback
	}
}
