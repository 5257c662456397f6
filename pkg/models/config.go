package models

// GlobalConfig holds settings read from the .growconfig file at the base
// path, merged with defaults by the configuration manager.
type GlobalConfig struct {
	DefaultBusiness string `yaml:"default_business"`
	Currency        string `yaml:"currency"`
	IDPadWidth      int    `yaml:"id_pad_width"`

	// Alert thresholds.
	StaleTaskDays    int `yaml:"stale_task_days"`
	BlockedTaskHours int `yaml:"blocked_task_hours"`
	MaxOpenPlans     int `yaml:"max_open_plans"`

	// Optional webhook for alert notifications.
	AlertWebhookURL string `yaml:"alert_webhook_url,omitempty"`
}
