package checkmango

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger receives debug output from the client. Key/value pairs follow the
// zap SugaredLogger convention.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// DebugConfig selects what the client logs when a Logger is set.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogResponses bool
	LogParams    bool
	RequestIDGen func() string
}

// DefaultDebugConfig returns a disabled config that logs everything once enabled.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogResponses: true,
		LogParams:    true,
		RequestIDGen: uuid.NewString,
	}
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger adapts a zap logger. A nil logger discards everything.
func NewZapLogger(logger *zap.Logger) Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLogger{sugar: logger.Named("checkmango").Sugar()}
}

// NewSimpleLogger returns a console logger at debug level.
func NewSimpleLogger() Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return NewZapLogger(nil)
	}
	return NewZapLogger(logger)
}

func (l *zapLogger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *zapLogger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *zapLogger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *zapLogger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}
