// Package logger writes the application log to a rotating file under the
// config directory. The terminal belongs to the TUI, so console output is
// opt-in and is held back while the program is on the alternate screen.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/slackfeedback/internal/constants"
)

// Logger is the global logger. It is nil until Init runs.
var Logger *log.Logger

// console is the debug copy of the log. It is package state so the TUI can
// detach it without holding a reference to the logger.
var console = &switchWriter{}

// Config controls where records go.
type Config struct {
	// Debug lowers the level to debug and copies records to Console.
	Debug     bool
	ConfigDir string
	// Console receives debug copies. Nil keeps everything in the file.
	Console io.Writer
}

// LogPath returns the log file location for a config directory.
func LogPath(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init replaces the global logger. Submissions log at info, so the default
// level keeps only warnings and failed deliveries.
func Init(cfg Config) error {
	logFile := LogPath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
		return err
	}

	file := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}

	level := log.WarnLevel
	var writer io.Writer = file
	console.set(nil)
	if cfg.Debug {
		level = log.DebugLevel
		if cfg.Console != nil {
			console.set(cfg.Console)
			writer = io.MultiWriter(file, console)
		}
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// Detach stops console copies until the returned func is called. The file
// keeps every record in the meantime.
func Detach() (reattach func()) {
	console.mute(true)
	return func() { console.mute(false) }
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// switchWriter forwards to out unless muted. Writes while muted or unset are
// dropped and reported as successful so the file copy still happens.
type switchWriter struct {
	mu    sync.Mutex
	out   io.Writer
	muted bool
}

func (w *switchWriter) set(out io.Writer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.out = out
	w.muted = false
}

func (w *switchWriter) mute(m bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.muted = m
}

func (w *switchWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.out == nil || w.muted {
		return len(p), nil
	}
	return w.out.Write(p)
}
