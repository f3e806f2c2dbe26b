package atelier

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is the recognized miss from the command router. It is
// silently dropped rather than echoed or reported.
var ErrUnknownCommand = errors.New("unknown command")

// UserError is a failure caused by the invoker. It is echoed back to the
// originating channel and never escalated to the operator channel.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func NewUserError(format string, a ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, a...)}
}
