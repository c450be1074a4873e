package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"proximity/config"
)

// Logger wraps a zap sugared logger. The zero value is usable and silent,
// which keeps test setup short.
type Logger struct {
	sugar *zap.SugaredLogger
}

var loggerLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"panic": zapcore.PanicLevel,
	"fatal": zapcore.FatalLevel,
}

func NewLogger(cfg *config.Config) (*Logger, error) {
	level, ok := loggerLevelMap[cfg.LoggerMode.Level]
	if !ok {
		level = zapcore.DebugLevel
	}

	var encoderCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if cfg.LoggerMode.Development {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoderCfg = zap.NewProductionEncoderConfig()
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), zap.NewAtomicLevelAt(level))
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &Logger{sugar: l.Sugar()}, nil
}

func (l *Logger) logger() *zap.SugaredLogger {
	if l == nil || l.sugar == nil {
		return zap.NewNop().Sugar()
	}
	return l.sugar
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.logger().Debugw(msg, keysAndValues...)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logger().Debugf(format, args...)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.logger().Infow(msg, keysAndValues...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logger().Infof(format, args...)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.logger().Warnw(msg, keysAndValues...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logger().Warnf(format, args...)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.logger().Errorw(msg, keysAndValues...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logger().Errorf(format, args...)
}

func (l *Logger) Sync() error {
	if l == nil || l.sugar == nil {
		return nil
	}
	return l.sugar.Sync()
}
