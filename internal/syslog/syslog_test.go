package syslog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestLogEntryWrite(t *testing.T) {
	tests := []struct {
		name  string
		entry func(l *Logger) *LogEntry
		level string
	}{
		{"info", func(l *Logger) *LogEntry { return l.Info() }, "info"},
		{"warn", func(l *Logger) *LogEntry { return l.Warn() }, "warn"},
		{"error", func(l *Logger) *LogEntry { return l.Error(errors.New("disk full")) }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf)

			tt.entry(l).
				WithMessage("dump written").
				WithField("path", `C:\dumps\20240305_070809.dmp`).
				WithFields(map[string]interface{}{"pid": 42}).
				Write()

			line := decodeLine(t, &buf)
			assert.Equal(t, tt.level, line["level"])
			assert.Equal(t, "dump written", line["message"])
			assert.Equal(t, `C:\dumps\20240305_070809.dmp`, line["path"])
			assert.Equal(t, float64(42), line["pid"])
			assert.Contains(t, line, "time")
			if tt.level == "error" {
				assert.Equal(t, "disk full", line["error"])
			} else {
				assert.NotContains(t, line, "error")
			}
		})
	}
}

type recordingServiceLogger struct {
	errors, warnings, infos []string
}

func (r *recordingServiceLogger) Error(v ...interface{}) error {
	r.errors = append(r.errors, fmt.Sprint(v...))
	return nil
}

func (r *recordingServiceLogger) Warning(v ...interface{}) error {
	r.warnings = append(r.warnings, fmt.Sprint(v...))
	return nil
}

func (r *recordingServiceLogger) Info(v ...interface{}) error {
	r.infos = append(r.infos, fmt.Sprint(v...))
	return nil
}

func (r *recordingServiceLogger) Errorf(format string, a ...interface{}) error {
	return r.Error(fmt.Sprintf(format, a...))
}

func (r *recordingServiceLogger) Warningf(format string, a ...interface{}) error {
	return r.Warning(fmt.Sprintf(format, a...))
}

func (r *recordingServiceLogger) Infof(format string, a ...interface{}) error {
	return r.Info(fmt.Sprintf(format, a...))
}

func TestLogWriterRoutesByLevel(t *testing.T) {
	rec := &recordingServiceLogger{}
	l := &Logger{zlog: zerolog.New(&LogWriter{logger: rec})}

	l.Info().WithMessage("starting").Write()
	l.Warn().WithMessage("slow").Write()
	l.Error(errors.New("boom")).WithMessage("crashed").Write()

	require.Len(t, rec.infos, 1)
	require.Len(t, rec.warnings, 1)
	require.Len(t, rec.errors, 1)
	assert.Contains(t, rec.infos[0], `"message":"starting"`)
	assert.Contains(t, rec.warnings[0], `"message":"slow"`)
	assert.Contains(t, rec.errors[0], `"error":"boom"`)
	assert.NotContains(t, rec.errors[0], "\n")
}
