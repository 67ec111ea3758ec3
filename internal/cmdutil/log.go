// internal/cmdutil/log.go
package cmdutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewConsole returns the stderr logger for run notices. quiet keeps only
// errors.
func NewConsole(dst io.Writer, quiet bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(dst)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	l.SetLevel(logrus.InfoLevel)
	if quiet {
		l.SetLevel(logrus.ErrorLevel)
	}
	return l
}

