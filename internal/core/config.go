package core

import (
	"fmt"

	"github.com/kwacihq/grow/pkg/models"
	"github.com/spf13/viper"
)

// ConfigurationManager defines the interface for loading the .growconfig
// file at the base path.
type ConfigurationManager interface {
	LoadConfig() (*models.GlobalConfig, error)
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .growconfig from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a GlobalConfig populated with defaults.
func DefaultConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		DefaultBusiness:  "",
		Currency:         "IDR",
		IDPadWidth:       5,
		StaleTaskDays:    3,
		BlockedTaskHours: 24,
		MaxOpenPlans:     10,
	}
}

// LoadConfig reads .growconfig using Viper. A missing file yields defaults.
func (cm *viperConfigManager) LoadConfig() (*models.GlobalConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(".growconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("defaults.business", cfg.DefaultBusiness)
	v.SetDefault("defaults.currency", cfg.Currency)
	v.SetDefault("ids.pad_width", cfg.IDPadWidth)
	v.SetDefault("alerts.stale_task_days", cfg.StaleTaskDays)
	v.SetDefault("alerts.blocked_task_hours", cfg.BlockedTaskHours)
	v.SetDefault("alerts.max_open_plans", cfg.MaxOpenPlans)
	v.SetDefault("alerts.webhook_url", cfg.AlertWebhookURL)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .growconfig: %w", err)
	}

	cfg.DefaultBusiness = v.GetString("defaults.business")
	cfg.Currency = v.GetString("defaults.currency")
	cfg.StaleTaskDays = v.GetInt("alerts.stale_task_days")
	cfg.BlockedTaskHours = v.GetInt("alerts.blocked_task_hours")
	cfg.MaxOpenPlans = v.GetInt("alerts.max_open_plans")
	cfg.AlertWebhookURL = v.GetString("alerts.webhook_url")

	// IsSet distinguishes "not set" (default 5) from "explicitly 0" (no padding).
	if v.IsSet("ids.pad_width") {
		cfg.IDPadWidth = v.GetInt("ids.pad_width")
	}

	return cfg, nil
}
