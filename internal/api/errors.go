package api

import "errors"

var (
	// ErrUnavailable indicates the progress server could not be reached.
	ErrUnavailable = errors.New("progress server unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("progress request timed out")

	// ErrUnauthorized indicates a missing, expired or revoked token.
	ErrUnauthorized = errors.New("not authorized")

	// ErrRemote indicates the server answered with an error status.
	ErrRemote = errors.New("progress server error")

	// ErrInvalidResponse indicates a body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from progress server")
)

// ErrorCode maps an error to the short code carried in Result.Code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	case errors.Is(err, ErrRemote):
		return "REMOTE"
	default:
		return "UNKNOWN"
	}
}
