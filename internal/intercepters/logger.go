// Package intercepters holds gRPC server interceptors.
package intercepters

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"

	"github.com/atinyakov/url-resolver/internal/middleware"
)

// InterceptorLogger adapts a zap logger to the go-grpc-middleware logging
// interceptor.
func InterceptorLogger(l *zap.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		f := make([]zap.Field, 0, len(fields)/2+1)

		for i := 0; i+1 < len(fields); i += 2 {
			key := fmt.Sprint(fields[i])

			switch v := fields[i+1].(type) {
			case string:
				f = append(f, zap.String(key, v))
			case int:
				f = append(f, zap.Int(key, v))
			case bool:
				f = append(f, zap.Bool(key, v))
			default:
				f = append(f, zap.Any(key, v))
			}
		}

		if id := middleware.RequestID(ctx); id != "" {
			f = append(f, zap.String("request_id", id))
		}

		logger := l.WithOptions(zap.AddCallerSkip(1)).With(f...)

		switch lvl {
		case logging.LevelDebug:
			logger.Debug(msg)
		case logging.LevelInfo:
			logger.Info(msg)
		case logging.LevelWarn:
			logger.Warn(msg)
		case logging.LevelError:
			logger.Error(msg)
		default:
			logger.Error(msg, zap.Int("unknown_level", int(lvl)))
		}
	})
}
