package obslogging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// NewZapLogger builds the process-wide zap.Logger. format is "json" (the
// production default) or "console" (for local development).
func NewZapLogger(level string, format string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	if l, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = l
	}
	return cfg.Build()
}

// Bridge adapts a zap.Logger to logr.Logger for collaborators (the audit
// client, the repository) that only know about the logr interface.
func Bridge(z *zap.Logger) logr.Logger {
	return zapr.NewLogger(z)
}
