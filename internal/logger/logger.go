// Package logger builds the zap logger used by every jtlflow run.
//
// Output goes to two sinks: a console on stderr and a JSON run log in the
// configured log directory. The console shows info and above unless
// verbose mode is on. The run log always records debug.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// TimeFormat is the timestamp layout of both sinks.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config controls where and how much is logged.
type Config struct {
	// Verbose lowers the console level to debug.
	Verbose bool
	// Console receives human-readable output. Defaults to os.Stderr.
	Console io.Writer
	// LogDir receives jtlflow_<stamp>.log. Empty disables the file sink.
	LogDir string
	// Now stamps the log file name. Defaults to time.Now.
	Now func() time.Time
}

// Logger is a zap logger plus the run log file it writes to.
type Logger struct {
	*zap.Logger
	// Path is the run log file, empty when the file sink is disabled.
	Path string
	file *os.File
}

// New builds a logger from cfg.
func New(cfg Config) (*Logger, error) {
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	consoleLevel := zapcore.InfoLevel
	if cfg.Verbose {
		consoleLevel = zapcore.DebugLevel
	}
	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(colorEnabled(console))),
			zapcore.AddSync(console),
			consoleLevel,
		),
	}

	l := &Logger{}
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		l.Path = filepath.Join(cfg.LogDir, "jtlflow_"+now().Format(domain.DatetimeLayout)+".log")
		f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		l.file = f
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig(false)),
			zapcore.AddSync(f),
			zapcore.DebugLevel,
		))
	}

	l.Logger = zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return l, nil
}

// Close flushes buffered entries and closes the run log.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ForRun returns a child logger tagged with the run and flow identity.
func ForRun(logger *zap.Logger, runID string, flow domain.FlowDefinition) *zap.Logger {
	return logger.With(
		zap.String("run_id", runID),
		zap.String("partner", flow.Partner),
		zap.String("direction", string(flow.Direction)),
		zap.String("flow", flow.Name),
	)
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(TimeFormat),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}

// colorEnabled reports whether w is a terminal that should get coloured levels.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
