package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/api"
)

var (
	// ErrRemoteFailure is wrapped by every RemoteError.
	ErrRemoteFailure = errors.New("remote call failed")

	// ErrMilestoneNotFound indicates a milestone id absent from the store.
	ErrMilestoneNotFound = errors.New("milestone not found")
)

// RemoteError describes an unsuccessful api.Result.
type RemoteError struct {
	Op      string
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
}

func (e *RemoteError) Unwrap() error { return ErrRemoteFailure }

func remoteError[T any](op string, res api.Result[T]) error {
	return &RemoteError{Op: op, Code: res.Code, Message: res.Error}
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("roadmap validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
