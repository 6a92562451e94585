// Package logutil constructs the zap loggers injected throughout the
// engine. Nothing here is a package-level singleton — every
// component that logs takes a *zap.SugaredLogger at construction time.
package logutil

import "go.uber.org/zap"

// New builds a development-friendly console logger when debug is
// true, or a production JSON logger otherwise.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything, for tests and
// components that don't want to thread a real logger through.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
