package api

// Result is the outcome of a remote call. Failures are reported here and
// never as a Go error or panic.
type Result[T any] struct {
	Success bool
	Data    T
	Error   string
	// Code classifies a failure, see ErrorCode.
	Code string
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](err error) Result[T] {
	return Result[T]{Error: err.Error(), Code: ErrorCode(err)}
}
