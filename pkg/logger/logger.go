package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/YagorVitor/CodeReview/pkg/config"
)

var logger *log.Logger
var rotator *lumberjack.Logger

// Init initializes the logger from log.level and log.file. verbose forces
// debug level.
func Init(verbose bool) {
	logLevel := parseLevel(config.GetString("log.level"))
	if verbose {
		logLevel = log.DebugLevel
	}

	var out io.Writer = os.Stderr
	logFile := config.GetString("log.file")
	if logFile != "" && os.MkdirAll(filepath.Dir(logFile), 0700) == nil {
		rotator = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     7, // days
			Compress:   true,
		}
		out = rotator
	}

	SetOutput(out, logLevel)
}

// SetOutput replaces the logger with one writing to w.
func SetOutput(w io.Writer, level log.Level) {
	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

func parseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Close flushes and closes the log file, if any.
func Close() error {
	if rotator != nil {
		return rotator.Close()
	}
	return nil
}

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...interface{}) {
	if logger != nil {
		logger.Fatal(msg, args...)
	} else {
		os.Exit(1)
	}
}

// GetLogger returns the logger instance
func GetLogger() *log.Logger {
	return logger
}
