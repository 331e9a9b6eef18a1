// Package logging configures the CLI's structured logger
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration
type Config struct {
	Level    string // debug, info, warn, error (default: warn)
	File     string // Log file path (empty = write to the command's output)
	MaxSize  int    // Max log file size in MB (default: 10)
	MaxFiles int    // Max log files to keep (default: 5)
}

// ConfigFromViper returns logging configuration from viper
func ConfigFromViper() Config {
	return Config{
		Level:    viper.GetString("logging.level"),
		File:     viper.GetString("logging.file"),
		MaxSize:  viper.GetInt("logging.max_size"),
		MaxFiles: viper.GetInt("logging.max_files"),
	}
}

// ParseLevel maps a level name to slog.Level, defaulting to warn
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New builds a logger. Without a file it writes text lines to out; with a
// file it writes JSON lines through a rotating writer. The returned closer
// must be closed before the process exits.
func New(cfg Config, out io.Writer) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(out, opts)), nopCloser{}
	}

	logPath := cfg.File
	if strings.HasPrefix(logPath, "~") {
		home, _ := os.UserHomeDir()
		logPath = filepath.Join(home, logPath[1:])
	}

	maxSize := cfg.MaxSize
	if maxSize == 0 {
		maxSize = 10
	}
	maxFiles := cfg.MaxFiles
	if maxFiles == 0 {
		maxFiles = 5
	}

	rotatingWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSize, // MB
		MaxBackups: maxFiles,
		MaxAge:     30, // days
		Compress:   true,
	}

	return slog.New(slog.NewJSONHandler(rotatingWriter, opts)), rotatingWriter
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
