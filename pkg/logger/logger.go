// Package logger constructs the structured logger shared by every cranedb
// subsystem. All components receive a *zap.SugaredLogger through their
// Config structs rather than constructing their own, so a single service
// name and encoding govern the whole process.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a SugaredLogger for the given service. Output goes to stdout
// with ISO-8601 timestamps; the service name is attached to every entry.
func New(service string) *zap.SugaredLogger {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config),
		zapcore.Lock(os.Stdout),
		zapcore.InfoLevel,
	)

	return zap.New(core).Sugar().With("service", service)
}

// NewNop returns a logger that discards everything. Useful for tests and
// for embedders that bring their own logging.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
