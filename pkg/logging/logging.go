package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

// Component logger names.
const (
	LeaseNamespace  = "lease"
	LedgerNamespace = "ledger"
	APINamespace    = "api"
	NTPNamespace    = "ntp"
)

// ParseLevel converts a level name to zap level. Unknown names are rejected.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zap.DebugLevel, nil
	case "INFO", "":
		return zap.InfoLevel, nil
	case "WARN":
		return zap.WarnLevel, nil
	case "ERROR":
		return zap.ErrorLevel, nil
	case "FATAL":
		return zap.FatalLevel, nil
	default:
		return zap.InfoLevel, errors.Errorf("invalid log level %q", level)
	}
}

// Setup creates the logger described by parameters and installs it as the global one.
// The returned level can be changed at runtime.
func Setup(p Parameters) (*zap.Logger, zap.AtomicLevel, error) {
	return setup(p, os.Stdout)
}

func setup(p Parameters, w io.Writer) (*zap.Logger, zap.AtomicLevel, error) {
	l, err := ParseLevel(p.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	al := zap.NewAtomicLevelAt(l)
	core, err := newCore(p.Type, p.Filter, zapcore.Lock(zapcore.AddSync(w)), isTerminal(w), al)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	logger := zap.New(core)
	zap.ReplaceGlobals(logger)
	return logger, al, nil
}

func newCore(t LoggerType, filter string, w zapcore.WriteSyncer, colorize bool, al zap.AtomicLevel) (zapcore.Core, error) {
	var enc zapcore.Encoder
	switch t {
	case LoggerConsole:
		ec := zap.NewDevelopmentEncoderConfig()
		if colorize {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(ec)
	case LoggerJSON:
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		panic(fmt.Sprintf("unsupported logger type %d", t))
	}
	core := zapcore.NewCore(enc, w, al)
	if filter == "" {
		return core, nil
	}
	rules, err := zapfilter.ParseRules(filter)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log filter %q", filter)
	}
	return zapfilter.NewFilteringCore(core, rules), nil
}

func isTerminal(w io.Writer) bool {
	type fd interface{ Fd() uintptr }
	_ = fd(os.Stdout)
	f, ok := w.(fd)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// ErrorTrace returns the stack trace of an error created by github.com/pkg/errors.
// Other errors give a skipped field.
func ErrorTrace(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	if st, ok := err.(stackTracer); ok {
		return zap.String("trace", fmt.Sprintf("%+v", st.StackTrace()))
	}
	return zap.Skip()
}

// Type returns a field with the type name of the value.
func Type(value any) zap.Field {
	return zap.String("type", fmt.Sprintf("%T", value))
}
