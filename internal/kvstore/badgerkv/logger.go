package badgerkv

import (
	"fmt"
	"log/slog"
	"strings"
)

// slogAdapter satisfies badger.Logger.
type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) Errorf(format string, args ...interface{}) {
	a.l.Error(line(format, args))
}

func (a slogAdapter) Warningf(format string, args ...interface{}) {
	a.l.Warn(line(format, args))
}

func (a slogAdapter) Infof(format string, args ...interface{}) {
	a.l.Info(line(format, args))
}

func (a slogAdapter) Debugf(format string, args ...interface{}) {
	a.l.Debug(line(format, args))
}

func line(format string, args []interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
