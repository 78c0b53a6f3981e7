package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/mantenix/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	logPath string
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Stderr mirrors the log file to stderr at info level. The TUI owns the
	// terminal, so only long-running commands such as serve set it.
	Stderr bool
	// Level overrides the level implied by Debug and Stderr ("debug", "warn", ...).
	Level string
}

func (cfg Config) level() (log.Level, error) {
	if lvl := strings.TrimSpace(cfg.Level); lvl != "" {
		parsed, err := log.ParseLevel(strings.ToLower(lvl))
		if err != nil {
			return 0, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		return parsed, nil
	}
	switch {
	case cfg.Debug:
		return log.DebugLevel, nil
	case cfg.Stderr:
		return log.InfoLevel, nil
	default:
		return log.WarnLevel, nil
	}
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}

	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return err
	}
	logPath = filepath.Join(logDir, constants.AppName+".log")

	var out io.Writer = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	if cfg.Debug || cfg.Stderr {
		out = io.MultiWriter(os.Stderr, out)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// Path returns the active log file path, or "" before Init.
func Path() string {
	return logPath
}

// StdLog adapts the logger for APIs that want a standard library logger,
// such as http.Server.ErrorLog. Output is discarded before Init.
func StdLog() *stdlog.Logger {
	if Logger == nil {
		return stdlog.New(io.Discard, "", 0)
	}
	return Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.WarnLevel})
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs at fatal level and exits with status 1.
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
