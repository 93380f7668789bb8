package lib

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		level    int32
		log      func(l LoggerI)
		expected string
	}{
		{
			name:     "info",
			detail:   "info is written at the info level",
			level:    InfoLevel,
			log:      func(l LoggerI) { l.Info("arg1 arg2") },
			expected: "INFO: arg1 arg2",
		},
		{
			name:     "debug",
			detail:   "debug is written at the debug level",
			level:    DebugLevel,
			log:      func(l LoggerI) { l.Debugf("%s %s", "arg1", "arg2") },
			expected: "DEBUG: arg1 arg2",
		},
		{
			name:   "debug filtered",
			detail: "debug is dropped at the info level",
			level:  InfoLevel,
			log:    func(l LoggerI) { l.Debug("arg1 arg2") },
		},
		{
			name:     "warn",
			detail:   "warn is written at the warn level",
			level:    WarnLevel,
			log:      func(l LoggerI) { l.Warnf("%s %s", "arg1", "arg2") },
			expected: "WARN: arg1 arg2",
		},
		{
			name:   "info filtered",
			detail: "info is dropped at the error level",
			level:  ErrorLevel,
			log:    func(l LoggerI) { l.Infof("%s", "arg1") },
		},
		{
			name:     "named",
			detail:   "a named logger tags the line with its components",
			level:    DebugLevel,
			log:      func(l LoggerI) { l.Named("fsm").Named("scheduler").Error("arg1 arg2") },
			expected: "ERROR [fsm/scheduler]: arg1 arg2",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			test.log(NewLogger(LoggerConfig{Level: test.level, Out: buf}))
			if test.expected == "" {
				require.Empty(t, buf.String())
				return
			}
			require.Contains(t, buf.String(), test.expected)
		})
	}
}

func TestLoggerFatal(t *testing.T) {
	buf, code := bytes.NewBuffer(nil), 0
	logger := &Logger{config: LoggerConfig{Level: ErrorLevel, Out: buf}, exit: func(c int) { code = c }}
	logger.Fatalf("%s", "halt")
	require.Equal(t, 1, code)
	require.Contains(t, buf.String(), "FATAL: halt")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		input    string
		expected int32
	}{
		{name: "info", detail: "a level name", input: "info", expected: InfoLevel},
		{name: "warning", detail: "a prefix is enough", input: "WARNING", expected: WarnLevel},
		{name: "error", detail: "a level name", input: "error", expected: ErrorLevel},
		{name: "unknown", detail: "unknown names are debug", input: "verbose", expected: DebugLevel},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, ParseLogLevel(test.input))
		})
	}
}
