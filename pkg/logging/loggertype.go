package logging

import (
	"strings"

	"github.com/pkg/errors"
)

// LoggerType is a type of logger output.
// Possible types:
//   - LoggerConsole: human readable lines, colored level names on terminals.
//   - LoggerJSON: one JSON object per line.
type LoggerType int

const (
	LoggerConsole LoggerType = iota
	LoggerJSON
)

var loggerTypeNames = [...]string{"console", "json"}

func (t LoggerType) String() string {
	if t < 0 || int(t) >= len(loggerTypeNames) {
		return "unknown"
	}
	return loggerTypeNames[t]
}

func (t LoggerType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *LoggerType) UnmarshalText(text []byte) error {
	for i, name := range loggerTypeNames {
		if strings.EqualFold(name, string(text)) {
			*t = LoggerType(i)
			return nil
		}
	}
	return errors.Errorf("unsupported logger type %q", string(text))
}
