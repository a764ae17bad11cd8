package domain

// ResultState is the lifecycle of an asynchronously fetched value.
type ResultState int

const (
	ResultLoading ResultState = iota
	ResultOk
	ResultErr
)

// Result holds a value that may still be loading, be available, or have failed.
// The zero value is Loading.
type Result[T any] struct {
	state ResultState
	value T
	err   error
}

// Loading returns a result that has not resolved yet.
func Loading[T any]() Result[T] { return Result[T]{} }

// Ok returns a resolved result.
func Ok[T any](v T) Result[T] { return Result[T]{state: ResultOk, value: v} }

// Err returns a failed result.
func Err[T any](err error) Result[T] { return Result[T]{state: ResultErr, err: err} }

// From builds a result from a (value, error) pair.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

func (r Result[T]) State() ResultState { return r.state }
func (r Result[T]) IsLoading() bool    { return r.state == ResultLoading }
func (r Result[T]) IsOk() bool         { return r.state == ResultOk }
func (r Result[T]) IsErr() bool        { return r.state == ResultErr }

// Get returns the value, the failure, or ErrLoading.
func (r Result[T]) Get() (T, error) {
	switch r.state {
	case ResultOk:
		return r.value, nil
	case ResultErr:
		return r.value, r.err
	default:
		var zero T
		return zero, ErrLoading
	}
}

// Error returns the failure, or nil unless the result is Err.
func (r Result[T]) Error() error {
	if r.state == ResultErr {
		return r.err
	}
	return nil
}

// Map transforms an Ok value. Loading and Err pass through.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	switch r.state {
	case ResultOk:
		return Ok(f(r.value))
	case ResultErr:
		return Err[U](r.err)
	default:
		return Loading[U]()
	}
}

// Then chains a fallible step onto an Ok value.
func Then[T, U any](r Result[T], f func(T) (U, error)) Result[U] {
	switch r.state {
	case ResultOk:
		return From(f(r.value))
	case ResultErr:
		return Err[U](r.err)
	default:
		return Loading[U]()
	}
}
