package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// The logger format
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// The format used for file sinks; colors are omitted.
var fileFormat = logging.MustStringFormatter(
	`[%{time:2006-01-02T15:04:05.000}] [%{module}] [%{level}] %{message}`,
)

// The internal leveled logger backend
var leveledBackend logging.LeveledBackend

// The currently active level.
var curLevel = Notice

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// FileConfig holds the settings for a rotating log file sink.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Create a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Override the backend output sink.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	setBackends(logging.NewBackendFormatter(backend, format))
}

// Send log output both to the console sink and to a rotating log file. An
// empty path leaves the current configuration untouched.
func SetFileSink(console io.Writer, cfg FileConfig) io.Closer {
	if cfg.Path == "" {
		return nopCloser{}
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}

	setBackends(
		logging.NewBackendFormatter(logging.NewLogBackend(console, "", 0), format),
		logging.NewBackendFormatter(logging.NewLogBackend(fileWriter, "", 0), fileFormat),
	)
	return fileWriter
}

func setBackends(backends ...logging.Backend) {
	if len(backends) == 1 {
		leveledBackend = logging.AddModuleLevel(backends[0])
	} else {
		leveledBackend = logging.AddModuleLevel(logging.MultiLogger(backends...))
	}
	logging.SetBackend(leveledBackend)
	SetLevel(curLevel)
}

// Set logger verbosity.
func SetLevel(level Level) {
	var loggerLevel logging.Level

	switch level {
	case Debug:
		loggerLevel = logging.DEBUG
	case Info:
		loggerLevel = logging.INFO
	case Notice:
		loggerLevel = logging.NOTICE
	case Warning:
		loggerLevel = logging.WARNING
	case Error:
		loggerLevel = logging.ERROR
	}

	curLevel = level
	leveledBackend.SetLevel(loggerLevel, "")
}

// Parse a level name as used in config files. Unknown names map to Notice.
func ParseLevel(name string) Level {
	switch name {
	case "debug":
		return Debug
	case "info":
		return Info
	case "warning", "warn":
		return Warning
	case "error":
		return Error
	default:
		return Notice
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
