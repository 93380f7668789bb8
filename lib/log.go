package lib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LogDirectory = "logs"
	LogFileName  = "log"
)

/*
	Leveled, colored logging for the node.
	Output goes to a configured writer or, by default, to stdout plus an auto-rotating file in the data directory.
*/

func init() {
	color.NoColor = false
}

// LoggerI defines the interface for various logging levels and formatted output
type LoggerI interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)
	Print(msg string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Printf(format string, args ...interface{})
	// Named() returns a child logger that tags every line with the component name
	Named(component string) LoggerI
}

const (
	DebugLevel int32 = -4
	InfoLevel  int32 = 0
	WarnLevel  int32 = 4
	ErrorLevel int32 = 8
)

var _ LoggerI = &Logger{}

// LoggerConfig holds configuration settings for the logger, including logging level and output writer
type LoggerConfig struct {
	Level     int32 `json:"level"`
	Out       io.Writer
	Component string
}

// Logger is the concrete implementation of LoggerI
type Logger struct {
	config LoggerConfig
	exit   func(code int)
}

func (l *Logger) Debug(msg string) { l.log(DebugLevel, color.BlueString, "DEBUG", msg) }
func (l *Logger) Info(msg string)  { l.log(InfoLevel, color.GreenString, "INFO", msg) }
func (l *Logger) Warn(msg string)  { l.log(WarnLevel, color.YellowString, "WARN", msg) }
func (l *Logger) Error(msg string) { l.log(ErrorLevel, color.RedString, "ERROR", msg) }

// Fatal() logs an error message and terminates the program
func (l *Logger) Fatal(msg string) {
	l.write(paint(color.RedString, l.tag("FATAL")+msg))
	l.exit(1)
}

// Print() logs a message without any specific log level or color
func (l *Logger) Print(msg string) { l.write(msg) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.Debug(fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...interface{})  { l.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.Warn(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.Error(fmt.Sprintf(format, args...)) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.Fatal(fmt.Sprintf(format, args...)) }
func (l *Logger) Printf(format string, args ...interface{}) { l.Print(fmt.Sprintf(format, args...)) }

// Named() returns a logger sharing the output and level, tagged with a component name
func (l *Logger) Named(component string) LoggerI {
	cfg := l.config
	if cfg.Component != "" {
		component = cfg.Component + "/" + component
	}
	cfg.Component = component
	return &Logger{config: cfg, exit: l.exit}
}

// log() writes the message if the level is enabled
func (l *Logger) log(level int32, c func(string, ...interface{}) string, label, msg string) {
	if l.config.Level > level {
		return
	}
	l.write(paint(c, l.tag(label)+msg))
}

// tag() builds the line prefix from the level label and the component name
func (l *Logger) tag(label string) string {
	if l.config.Component == "" {
		return label + ": "
	}
	return label + " [" + l.config.Component + "]: "
}

// write() outputs the log message with a timestamp to the configured writer
func (l *Logger) write(msg string) {
	ts := color.HiBlackString(time.Now().Format(time.StampMilli))
	if _, err := fmt.Fprintf(l.config.Out, "%s %s\n", ts, msg); err != nil {
		fmt.Println(err.Error())
	}
}

// paint() colors each line separately so multi-line messages keep their color in terminals
func paint(c func(string, ...interface{}) string, msg string) string {
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		lines[i] = c("%s", line)
	}
	return strings.Join(lines, "\n")
}

// NewLogger() creates a new Logger; without an output writer it logs to stdout and a rotating file in the data directory
func NewLogger(config LoggerConfig, dataDirPath ...string) LoggerI {
	if config.Out == nil {
		dir := DefaultDataDirPath()
		if len(dataDirPath) != 0 && dataDirPath[0] != "" {
			dir = dataDirPath[0]
		}
		logDir := filepath.Join(dir, LogDirectory)
		if _, err := os.Stat(logDir); errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(logDir, os.ModePerm); err != nil {
				panic(err)
			}
		}
		config.Out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   filepath.Join(logDir, LogFileName),
			MaxSize:    1, // megabyte
			MaxBackups: 100,
			MaxAge:     14, // days
			Compress:   true,
		})
	}
	return &Logger{config: config, exit: os.Exit}
}

// NewDefaultLogger() creates a Logger with default settings, logging at the Debug level to stdout
func NewDefaultLogger() LoggerI {
	return NewLogger(LoggerConfig{Level: DebugLevel, Out: os.Stdout})
}

// NewNullLogger() creates a Logger that discards all log output
func NewNullLogger() LoggerI {
	return NewLogger(LoggerConfig{Level: DebugLevel, Out: io.Discard})
}

// ParseLogLevel() converts a level name (debug < info < warn < error) into a level; unknown names are debug
func ParseLogLevel(s string) int32 {
	s = strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "inf"):
		return InfoLevel
	case strings.HasPrefix(s, "war"):
		return WarnLevel
	case strings.HasPrefix(s, "err"):
		return ErrorLevel
	default:
		return DebugLevel
	}
}
