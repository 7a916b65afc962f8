package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalid     = errors.New("invalid")
	ErrUnavailable = errors.New("unavailable")
	ErrNotFound    = errors.New("not found")
)

func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func Unavailablef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
