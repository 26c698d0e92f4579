package config

import (
	"go.uber.org/zap"
)

// Log is the process logger. It is a no-op until InitLogger runs so tests and
// tools that skip boot can still log.
var Log = zap.NewNop()

func InitLogger() error {
	var zapCfg zap.Config
	if LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch LogLevel {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return err
	}
	Log = logger
	zap.ReplaceGlobals(logger)
	return nil
}
