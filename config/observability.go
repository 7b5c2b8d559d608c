package config

import "strings"

const defaultMetricsPrefix = "accessjobs"

// ObservabilityConfig groups configuration that controls metrics and run event fan-out.
type ObservabilityConfig struct {
	Metrics   ObservabilityMetricsConfig
	RunEvents RunEventsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.RunEvents.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to external sinks such as StatsD.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"accessjobs"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	if c.Prefix = strings.TrimSpace(c.Prefix); c.Prefix == "" {
		c.Prefix = defaultMetricsPrefix
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// RunEventsConfig controls publishing of finished job runs to Redis pub/sub.
type RunEventsConfig struct {
	Enabled bool   `env:"OBSERVABILITY_RUN_EVENTS_ENABLED" envDefault:"false"`
	Channel string `env:"OBSERVABILITY_RUN_EVENTS_CHANNEL" envDefault:"accessjobs:job_runs"`
}

// Sanitize normalises the channel name.
func (c *RunEventsConfig) Sanitize() {
	if c.Channel = strings.TrimSpace(c.Channel); c.Channel == "" {
		c.Channel = "accessjobs:job_runs"
	}
}
