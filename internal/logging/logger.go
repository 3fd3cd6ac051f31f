package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Logger is the structured logger shared by the CLI commands.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger writes human-readable logs to stderr. Verbose enables debug
// output and caller information.
func NewLogger(verbose bool) *Logger {
	return newLogger(zapcore.Lock(os.Stderr), verbose, supportsColor(os.Stderr))
}

func newLogger(w zapcore.WriteSyncer, verbose, color bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if !verbose {
		encCfg.CallerKey = zapcore.OmitKey
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), w, level)

	opts := []zap.Option{zap.ErrorOutput(w)}
	if verbose {
		opts = append(opts, zap.AddCaller())
	}
	return &Logger{zap.New(core, opts...).Sugar()}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

func supportsColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return term.IsTerminal(int(f.Fd()))
}
