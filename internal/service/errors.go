package service

import "github.com/uplyft/shopchat-client/internal/gateway"

// opError surfaces the backend's detail message (or a fixed
// per-operation fallback) as the error text the view layer presents,
// while keeping the underlying cause unwrappable.
type opError struct {
	msg   string
	cause error
}

func (e *opError) Error() string { return e.msg }

func (e *opError) Unwrap() error { return e.cause }

func wrapOp(err error, fallback string) error {
	return &opError{msg: gateway.Detail(err, fallback), cause: err}
}
