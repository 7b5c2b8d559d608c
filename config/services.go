package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/target/accessjobs/internal/domain/job"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server exposing trigger and status endpoints.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeScheduler runs the cron scheduler that triggers recurring jobs.
	ServiceModeScheduler ServiceMode = "scheduler"
	// ServiceModeReaper runs the abandoned-run reaper.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeScheduler,
		ServiceModeReaper,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeScheduler, ServiceModeReaper:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, scheduler, reaper)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// SchedulerConfig contains cron scheduler configuration.
// Specs use the standard five-field cron syntax; an empty spec disables that job kind.
type SchedulerConfig struct {
	// NotificationCron triggers the expiry notification job.
	NotificationCron string `env:"SCHEDULER_NOTIFICATION_CRON" envDefault:"0 8 * * *"`

	// RevokeCron triggers the expired access revocation job.
	RevokeCron string `env:"SCHEDULER_REVOKE_CRON" envDefault:"*/15 * * * *"`

	// RunTimeout bounds a single scheduled run's context.
	RunTimeout time.Duration `env:"SCHEDULER_RUN_TIMEOUT" envDefault:"5m"`

	// RunOnStart triggers every scheduled kind once when the scheduler starts.
	RunOnStart bool `env:"SCHEDULER_RUN_ON_START" envDefault:"false"`
}

// Sanitize applies guardrails to scheduler configuration values.
func (s *SchedulerConfig) Sanitize() {
	s.NotificationCron = strings.TrimSpace(s.NotificationCron)
	s.RevokeCron = strings.TrimSpace(s.RevokeCron)
	if s.RunTimeout < time.Minute {
		s.RunTimeout = time.Minute
	}
}

// ReaperConfig contains abandoned-run reaper configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"5m"`

	// AbandonedAfter is the age after which an in-progress run is marked failed.
	// It can never be shorter than the lock staleness window.
	AbandonedAfter time.Duration `env:"REAPER_ABANDONED_AFTER" envDefault:"1h"`

	// BatchSize is the maximum number of rows to update per tick.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"500"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	if r.Interval < time.Minute {
		r.Interval = time.Minute
	}
	if r.AbandonedAfter < job.StalenessWindow {
		r.AbandonedAfter = job.StalenessWindow
	}
	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
}
