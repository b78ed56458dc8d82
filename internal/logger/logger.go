package logger

import (
	"github.com/votechain/metavote/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process logger. It discards everything until InitLogger runs.
var Log = zap.NewNop()

// Options select the encoding and verbosity of the process logger.
type Options struct {
	Level zapcore.Level
	Stage string
	JSON  bool
	Color bool
}

// OptionsFor returns the options for stage: JSON in prod, colored console
// output elsewhere.
func OptionsFor(stage string, level zapcore.Level) Options {
	prod := stage == constants.ProdEnvironment
	return Options{Level: level, Stage: stage, JSON: prod, Color: !prod}
}

// InitLogger installs the logger for stage at level, as resolved by
// config.Load.
func InitLogger(stage string, level zapcore.Level) {
	l, err := Build(OptionsFor(stage, level))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Log = l
}

// Build creates a logger without installing it.
func Build(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.JSON {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.InitialFields = map[string]interface{}{
			"service": "metavote",
			"stage":   opts.Stage,
		}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if opts.Color {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(opts.Level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = opts.Stage == constants.ProdEnvironment && opts.Level > zapcore.DebugLevel

	return cfg.Build()
}

// Info logs a message at InfoLevel
func Info(msg string, fields ...zapcore.Field) {
	Log.Info(msg, fields...)
}

// Error logs a message at ErrorLevel
func Error(msg string, fields ...zapcore.Field) {
	Log.Error(msg, fields...)
}

// Debug logs a message at DebugLevel
func Debug(msg string, fields ...zapcore.Field) {
	Log.Debug(msg, fields...)
}

// Warn logs a message at WarnLevel
func Warn(msg string, fields ...zapcore.Field) {
	Log.Warn(msg, fields...)
}

// Fatal logs a message at FatalLevel and then calls os.Exit(1)
func Fatal(msg string, fields ...zapcore.Field) {
	Log.Fatal(msg, fields...)
}

// With creates a child logger and adds structured context to it
func With(fields ...zapcore.Field) *zap.Logger {
	return Log.With(fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return Log.Sync()
}
