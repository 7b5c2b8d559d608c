package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/accessjobs/config"
	"github.com/target/accessjobs/internal/adapters/notifier"
	runevents "github.com/target/accessjobs/internal/adapters/redis"
	"github.com/target/accessjobs/internal/adapters/reaper"
	"github.com/target/accessjobs/internal/adapters/scheduler"
	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/data"
	"github.com/target/accessjobs/internal/domain/job"
	"github.com/target/accessjobs/internal/observability/statsd"
	"github.com/target/accessjobs/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Runner        *service.JobRunnerService
	Status        *service.JobStatusService
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
	RunEvents     core.RunEventPublisher
}

// Sink returns the metrics sink, or nil when metrics are disabled.
//
//nolint:ireturn // callers accept the statsd.Sink port.
func (o ObservabilityContainer) Sink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports; no business rules here.
type serviceRepositories struct {
	AccessRequests *data.AccessRequestRepo
	JobRuns        *data.JobRunRepo
}

func buildRepositories(db *sql.DB, logger *slog.Logger) *serviceRepositories {
	return &serviceRepositories{
		AccessRequests: data.NewAccessRequestRepo(db, data.AccessRequestRepoConfig{Logger: logger}),
		JobRuns:        data.NewJobRunRepo(db, data.JobRunRepoConfig{Logger: logger}),
	}
}

// buildObservability configures the metrics sink and the run event publisher.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig, rdb redis.UniversalClient) ObservabilityContainer {
	out := ObservabilityContainer{MetricsConfig: cfg.Metrics}

	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  logger,
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		} else {
			out.MetricsSink = client
		}
	}

	if cfg.RunEvents.Enabled {
		if rdb == nil {
			logger.Warn("run events enabled but redis is not configured; events will not be published")
		} else {
			pub, err := runevents.NewRunEventPublisher(rdb, cfg.RunEvents.Channel)
			if err != nil {
				logger.Error("failed to initialise run event publisher", "error", err)
			} else {
				out.RunEvents = pub
			}
		}
	}

	return out
}

func newJobDefinitions(repos *serviceRepositories, logger *slog.Logger) []service.JobDefinition {
	selector := service.NewWorkSelector(service.WorkSelectorOptions{
		Repo:   repos.AccessRequests,
		Logger: logger,
	})
	return []service.JobDefinition{
		service.NewNotificationJob(service.NotificationJobOptions{
			Selector: selector,
			Notifier: notifier.NewSimulated(notifier.SimulatedOptions{Logger: logger}),
			Repo:     repos.AccessRequests,
		}),
		service.NewRevokeJob(service.RevokeJobOptions{
			Selector: selector,
			Repo:     repos.AccessRequests,
		}),
	}
}

// runHold returns the post-acquire pause, which only development builds take.
func runHold(cfg *config.AppConfig) func() time.Duration {
	if cfg == nil || !cfg.IsDev || !cfg.Jobs.RunHold {
		return nil
	}
	return job.RandomHold
}

// NewServices wires the job runner and status services over the Postgres repositories.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, errors.New("service deps are required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database connection is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	observability := buildObservability(logger, appCfg.Observability, deps.RedisClient)
	repos := buildRepositories(deps.DB, logger)

	runner, err := service.NewJobRunnerService(service.JobRunnerOptions{
		Locks:       repos.JobRuns,
		Definitions: newJobDefinitions(repos, logger),
		Holder:      appCfg.Jobs.HolderID,
		Concurrency: appCfg.Jobs.BatchConcurrency,
		Hold:        runHold(appCfg),
		Events:      observability.RunEvents,
		Metrics:     observability.Sink(),
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("wire job runner: %w", err)
	}

	status := service.NewJobStatusService(service.JobStatusServiceOptions{
		Locks:   repos.JobRuns,
		History: repos.JobRuns,
	})

	return ServiceContainer{
		Runner:        runner,
		Status:        status,
		Observability: observability,
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		DB:       deps.cfg.DB,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newSchedulerBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeScheduler,
		name: "scheduler",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			if deps.cfg.Services.Runner == nil {
				return errors.New("job runner is not configured")
			}
			var schedulerCfg config.SchedulerConfig
			if deps.cfg.Config != nil {
				schedulerCfg = deps.cfg.Config.Scheduler
			}
			runner, err := scheduler.NewRunner(scheduler.RunnerOptions{
				Trigger: deps.cfg.Services.Runner,
				Config:  schedulerCfg,
				Logger:  deps.logger,
			})
			if err != nil {
				return fmt.Errorf("create scheduler: %w", err)
			}
			return runner.Run(ctx)
		},
	}
}

func newReaperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeReaper,
		name: "reaper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			var reaperCfg config.ReaperConfig
			if deps.cfg.Config != nil {
				reaperCfg = deps.cfg.Config.Reaper
			}
			runner, err := reaper.NewRunner(reaper.RunnerOptions{
				DB:      deps.cfg.DB,
				Config:  reaperCfg,
				Logger:  deps.logger,
				Metrics: deps.cfg.Services.Observability.Sink(),
			})
			if err != nil {
				return fmt.Errorf("create reaper: %w", err)
			}
			return runner.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newSchedulerBackgroundService(deps),
		newReaperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	defer func() {
		if cerr := cfg.Services.Observability.MetricsSink.Close(); cerr != nil {
			logger.Warn("close statsd client failed", "error", cerr)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		quit:        quit,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	quit        <-chan os.Signal
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains the HTTP server and then waits for background services.
// The service context is already cancelled here, so HTTP shutdown gets its own.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
