package logging

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

type Parameters struct {
	Level  string     `yaml:"level"`
	Type   LoggerType `yaml:"type"`
	Filter string     `yaml:"filter"`

	flagLoggerType string
}

// Register adds logging command line parameters to the flag set. Current values are the defaults.
func (p *Parameters) Register(fs *pflag.FlagSet) {
	fs.StringVar(&p.Level, "log-level", p.Level,
		"Set the logging level. Supported values: debug, info, warn, error, fatal.")
	fs.StringVar(&p.flagLoggerType, "log-type", p.Type.String(),
		"Set the logger output format. Supported types: console, json.")
	fs.StringVar(&p.Filter, "log-filter", p.Filter,
		"Filter log entries by level and logger name, for example 'debug:ledger *:api'.")
}

// Parse applies the parsed command line parameters.
func (p *Parameters) Parse() error {
	if _, err := ParseLevel(p.Level); err != nil {
		return errors.Wrap(err, "failed to parse logger parameters")
	}
	if p.flagLoggerType != "" {
		if err := p.Type.UnmarshalText([]byte(p.flagLoggerType)); err != nil {
			return errors.Wrap(err, "failed to parse logger parameters")
		}
	}
	return nil
}

func (p *Parameters) String() string {
	return fmt.Sprintf("{Level: %s, Type: %s, Filter: %q}", p.Level, p.Type, p.Filter)
}
