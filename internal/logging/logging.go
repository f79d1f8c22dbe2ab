// Package logging builds the zap logger used by the margins command.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/margins/internal/config"
)

// New returns a console logger writing to w. Level "none" discards
// everything, "normal" logs info and above, "debug" logs everything.
// Standard output is reserved for table output, so w is normally stderr.
func New(level string, w zapcore.WriteSyncer) (*zap.Logger, error) {
	var enabler zapcore.LevelEnabler
	switch level {
	case config.LogLevelNone:
		return zap.NewNop(), nil
	case config.LogLevelNormal:
		enabler = zapcore.InfoLevel
	case config.LogLevelDebug:
		enabler = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidLogLevel, level)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(w), enabler)
	return zap.New(core), nil
}
