// Package logger writes to two sinks: the terminal (stderr) for the person
// logging in, and the system authentication log for the operator. Failures
// around credentials always reach syslog even when the terminal is gone.
package logger

import (
	"fmt"
	"log/syslog"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	sug     *zap.SugaredLogger
	sysw    *syslog.Writer
	console bool = true
)

func init() {
	rebuild()
}

// Init connects the syslog sink with the given tag on the authpriv
// facility. Missing syslog (containers, tests) is not an error; logging
// stays terminal-only.
func Init(tag string) {
	w, err := syslog.New(syslog.LOG_AUTHPRIV|syslog.LOG_NOTICE, tag)
	mu.Lock()
	defer mu.Unlock()
	if err == nil {
		sysw = w
	}
	rebuild()
}

// Quiet drops the terminal sink. The supervising parent calls this after
// it has closed its terminal descriptors.
func Quiet() {
	mu.Lock()
	defer mu.Unlock()
	console = false
	rebuild()
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if sug != nil {
		_ = sug.Sync()
	}
	if sysw != nil {
		_ = sysw.Close()
		sysw = nil
	}
	console = true
	rebuild()
}

// Audit records an error-severity event for the system log only. The
// terminal shows whatever the caller chooses to print, which for login
// failures deliberately says less than the log.
func Audit(format string, args ...interface{}) {
	mu.Lock()
	w := sysw
	mu.Unlock()
	if w != nil {
		_ = w.Err(fmt.Sprintf(format, args...))
	}
}

// AuditInfo records an informational event for the system log only.
func AuditInfo(format string, args ...interface{}) {
	mu.Lock()
	w := sysw
	mu.Unlock()
	if w != nil {
		_ = w.Info(fmt.Sprintf(format, args...))
	}
}

func Info(format string, args ...interface{}) {
	logger().Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	logger().Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	logger().Errorf(format, args...)
}

func logger() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return sug
}

func rebuild() {
	var cores []zapcore.Core
	if console {
		cores = append(cores, consoleCore())
	}
	if sysw != nil {
		cores = append(cores, newSyslogCore(sysw))
	}
	if len(cores) == 0 {
		cores = append(cores, zapcore.NewNopCore())
	}
	sug = zap.New(zapcore.NewTee(cores...)).Sugar()
}

func consoleCore() zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	enc := zapcore.NewConsoleEncoder(cfg)
	return zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.InfoLevel)
}
