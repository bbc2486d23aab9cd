package syslog

import (
	"strings"

	"github.com/kardianos/service"
	"github.com/rs/zerolog"
)

// LogWriter forwards zerolog output to a service logger, choosing the
// service severity from the zerolog level.
type LogWriter struct {
	logger service.Logger
}

func (w *LogWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.InfoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (w *LogWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	message := strings.TrimRight(string(p), "\n")

	var err error
	switch {
	case level >= zerolog.ErrorLevel:
		err = w.logger.Error(message)
	case level == zerolog.WarnLevel:
		err = w.logger.Warning(message)
	default:
		err = w.logger.Info(message)
	}
	return len(p), err
}
