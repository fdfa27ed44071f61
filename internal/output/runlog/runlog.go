// Package runlog keeps a structured audit trail of a run as a zap JSON file,
// one entry per progress event.
package runlog

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// Output writes events through a zap logger backed by a file.
type Output struct {
	f      *os.File
	logger *zap.Logger
}

// New opens path for appending and builds a JSON logger that records
// every event at or above minLevel.
func New(path string, minLevel model.Level) (*Output, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("runlog: open %s: %w", path, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapLevel(minLevel))

	return &Output{f: f, logger: zap.New(core)}, nil
}

func (o *Output) Write(_ context.Context, event model.Event) error {
	fields := []zap.Field{
		zap.String("run_id", event.RunID),
		zap.Int("current", event.Current),
		zap.Int("total", event.Total),
	}
	if event.Cuenta != "" {
		fields = append(fields, zap.String("cuenta", event.Cuenta))
	}
	if event.Nombre != "" {
		fields = append(fields, zap.String("nombre", event.Nombre))
	}
	if ce := o.logger.Check(zapLevel(event.Level), event.Message); ce != nil {
		if !event.Time.IsZero() {
			ce.Time = event.Time
		}
		ce.Write(fields...)
	}
	return nil
}

// Close flushes the logger and closes the file.
func (o *Output) Close() error {
	syncErr := o.logger.Sync()
	if err := o.f.Close(); err != nil {
		return fmt.Errorf("runlog: close: %w", err)
	}
	if syncErr != nil {
		return fmt.Errorf("runlog: sync: %w", syncErr)
	}
	return nil
}

func zapLevel(l model.Level) zapcore.Level {
	switch l {
	case model.LevelDebug:
		return zapcore.DebugLevel
	case model.LevelWarn:
		return zapcore.WarnLevel
	case model.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
