package types

import (
	"time"
)

// Time is a source of trusted time. The error reports that the time is not synchronized
// with the reference, the returned time is still usable.
type Time interface {
	Now() (time.Time, error)
}
