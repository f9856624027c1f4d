package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Extender is implemented by typed errors that keep their type when a context is added.
type Extender interface {
	Extend(message string) error
}

// Extend prefixes err with a formatted context. Extenders return an error of their own type,
// other errors are wrapped.
func Extend(err error, format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	if ex, ok := err.(Extender); ok {
		return ex.Extend(message)
	}
	return errors.Wrap(err, message)
}

func extendedMessage(err error, context string) string {
	return context + ": " + err.Error()
}
