package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var once sync.Once

var logger *zap.SugaredLogger

// Get initializes the process logger on first use and returns the same instance afterwards.
// LOG_LEVEL selects the level, JSON_LOG switches to the JSON encoder.
func Get() *zap.SugaredLogger {
	once.Do(func() {
		level := zap.InfoLevel
		if levelEnv := os.Getenv("LOG_LEVEL"); levelEnv != "" {
			parsed, err := zapcore.ParseLevel(levelEnv)
			if err != nil {
				log.Println(fmt.Errorf("invalid level, defaulting to INFO: %w", err))
			} else {
				level = parsed
			}
		}

		productionCfg := zap.NewProductionEncoderConfig()
		productionCfg.TimeKey = "timestamp"
		productionCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		developmentCfg := zap.NewDevelopmentEncoderConfig()
		developmentCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

		encoder := zapcore.NewConsoleEncoder(developmentCfg)
		if os.Getenv("JSON_LOG") != "" {
			encoder = zapcore.NewJSONEncoder(productionCfg)
		}

		core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zap.NewAtomicLevelAt(level))

		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			fields := []zapcore.Field{zap.String("go_version", buildInfo.GoVersion)}
			for _, v := range buildInfo.Settings {
				if v.Key == "vcs.revision" && len(v.Value) >= 7 {
					fields = append(fields, zap.String("git_revision", v.Value[:7]))
					break
				}
			}
			core = core.With(fields)
		}

		logger = zap.New(core).Sugar()
	})

	return logger
}

// Nop returns a logger that discards everything. Tests use it to keep output quiet.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// FromCtx returns the logger stored in ctx, falling back to the process logger.
func FromCtx(ctx context.Context, with ...any) *zap.SugaredLogger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
		return l.With(with...)
	}
	return Get().With(with...)
}

// WithCtx returns a copy of ctx carrying l.
func WithCtx(ctx context.Context, l *zap.SugaredLogger) context.Context {
	if lp, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && lp == l {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}
