package touchkeys

import (
	"log/slog"
	"os"

	"github.com/pawndev/touchkeys/pkg/touchkeys/internal"
)

func SetLogFilename(filename string) {
	internal.SetLogFilename(filename)
}

func SetLogDir(dir string) {
	internal.SetLogDir(dir)
}

// SetLogQuiet keeps log output off stdout. Call it before the first log line.
func SetLogQuiet(quiet bool) {
	internal.SetQuiet(quiet)
}

func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

func GetInternalLogger() *slog.Logger {
	return internal.GetInternalLogger()
}

func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

func SetInternalLogLevel(level slog.Level) {
	internal.SetInternalLogLevel(level)
}

func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}

func CloseLogger() {
	internal.CloseLogger()
}

// SetInputMappingBytes installs an embedded physical key mapping, taking
// precedence over INPUT_MAPPING_PATH.
func SetInputMappingBytes(data []byte) {
	internal.SetInputMappingBytes(data)
}

// SetInputMappingFile installs the physical key mapping stored at path.
func SetInputMappingFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := internal.LoadInputMappingFromBytes(data); err != nil {
		return err
	}
	internal.SetInputMappingBytes(data)
	return nil
}
