package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the application logger. Structured environments get JSON output,
// everything else gets the human-friendly development encoder.
func New(structured bool, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if structured {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
