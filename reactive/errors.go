package reactive

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCycle            = errors.New("circular dependency")
	ErrUnhashableKey    = errors.New("key is not comparable")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrUnsupportedValue = errors.New("value is not an object, array, map or set")
	ErrInvalidJSON      = errors.New("invalid json")
)

// CycleError is returned when an effect is asked to run while it is already
// on the active effect stack.
type CycleError struct {
	Effect string
	Path   []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected: effect %q triggered itself (path: %s)", e.Effect, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// InterceptError reports a failure inside a wrapper operation.
type InterceptError struct {
	Op  string
	Key any
	Err error
}

func (e *InterceptError) Error() string {
	return fmt.Sprintf("%s %v: %v", e.Op, e.Key, e.Err)
}

func (e *InterceptError) Unwrap() error {
	return e.Err
}
