package internal

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DebugEnvVar lowers the internal log level to debug when set.
const DebugEnvVar = "TOUCHKEYS_DEBUG"

var (
	logFile     *os.File
	logFilename string
	logDir      = "logs"
	quiet       bool

	setupOnce   sync.Once
	multiWriter io.Writer

	loggerOnce sync.Once
	logger     *slog.Logger
	levelVar   *slog.LevelVar

	internalLoggerOnce sync.Once
	internalLogger     *slog.Logger
	internalLevelVar   *slog.LevelVar
)

func SetLogFilename(filename string) {
	logFilename = filename
}

func SetLogDir(dir string) {
	logDir = dir
}

// SetQuiet stops the loggers from writing to stdout. Hosts that own the
// terminal need this.
func SetQuiet(q bool) {
	quiet = q
}

func setup() {
	setupOnce.Do(func() {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			panic("Failed to create logs directory: " + err.Error())
		}

		filename := logFilename
		if filename == "" {
			filename = "touchkeys.log"
		}

		var err error
		logFile, err = os.OpenFile(filepath.Join(logDir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			panic("Failed to open log file: " + err.Error())
		}

		if quiet {
			multiWriter = logFile
		} else {
			multiWriter = io.MultiWriter(os.Stdout, logFile)
		}
	})
}

func GetLogger() *slog.Logger {
	loggerOnce.Do(func() {
		levelVar = &slog.LevelVar{}

		setup()

		handler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
			Level:     levelVar,
			AddSource: false,
		})
		logger = slog.New(handler)
	})
	return logger
}

func GetInternalLogger() *slog.Logger {
	internalLoggerOnce.Do(func() {
		internalLevelVar = &slog.LevelVar{}
		if os.Getenv(DebugEnvVar) != "" {
			internalLevelVar.Set(slog.LevelDebug)
		} else {
			internalLevelVar.Set(slog.LevelWarn)
		}

		setup()

		handler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
			Level:     internalLevelVar,
			AddSource: false,
		}).WithAttrs([]slog.Attr{slog.String("component", "touchkeys")})
		internalLogger = slog.New(handler)
	})
	return internalLogger
}

func SetLogLevel(level slog.Level) {
	GetLogger()
	levelVar.Set(level)
}

func SetInternalLogLevel(level slog.Level) {
	GetInternalLogger()
	internalLevelVar.Set(level)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(rawLevel string) slog.Level {
	switch strings.ToLower(rawLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func SetRawLogLevel(rawLevel string) {
	SetLogLevel(ParseLevel(rawLevel))
}

func CloseLogger() {
	if logFile != nil {
		logFile.Close()
	}
}
