package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch re-reads the config file whenever it is written and passes the
// new planning section to onChange. Invalid edits are logged and ignored.
// It returns an error when there is no config file to watch.
func Watch(configPath string, logger *zap.Logger, onChange func(PlanningConfig)) error {
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config for watching: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		var planning PlanningConfig
		if err := v.UnmarshalKey("planning", &planning); err != nil {
			logger.Warn("Failed to decode reloaded planning config",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			return
		}
		if err := planning.Validate(); err != nil {
			logger.Warn("Ignoring invalid planning config",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			return
		}

		logger.Info("Planning config reloaded",
			zap.String("file", e.Name),
			zap.Int("max_days", planning.MaxDays),
			zap.Bool("external_fallback", planning.ExternalFallback),
		)
		onChange(planning)
	})
	v.WatchConfig()

	logger.Info("Watching config file", zap.String("file", v.ConfigFileUsed()))
	return nil
}
