package renderer

import (
	"fmt"
	"io"

	"github.com/df07/go-sky-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to a stream
type DefaultLogger struct {
	out io.Writer
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(dl.out, format, args...)
}

// NewDefaultLogger creates a logger writing to out
func NewDefaultLogger(out io.Writer) core.Logger {
	return &DefaultLogger{out: out}
}

// discardLogger drops all output
type discardLogger struct{}

func (discardLogger) Printf(format string, args ...interface{}) {}

// orDiscard returns logger, or a logger that drops everything when it is nil
func orDiscard(logger core.Logger) core.Logger {
	if logger == nil {
		return discardLogger{}
	}
	return logger
}
