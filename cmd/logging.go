package cmd

import (
	"fmt"

	"go.uber.org/zap"
)

// createLogger builds the diagnostic logger. Status lines for the user are
// printed by the reporter, the logger only carries debug detail and warnings.
func createLogger(debug bool) (*zap.Logger, error) {
	var loggerCfg zap.Config
	if debug {
		loggerCfg = zap.NewDevelopmentConfig()
		loggerCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		loggerCfg = zap.NewProductionConfig()
		loggerCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	logger, err := loggerCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.Named("hmb"), nil
}
