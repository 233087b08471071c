package background

import (
	"context"
	"sync"
	"time"

	"ecowear/internal/analytics"
	"ecowear/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// JobScheduler manages recurring maintenance jobs.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	dashboardSvc *analytics.DashboardService
	productRepo  repositories.ProductRepository
	cartRepo     repositories.CartItemRepository
	logger       zerolog.Logger

	staleCartAge      time.Duration
	lowStockThreshold int

	jobs map[string]gocron.Job
	mu   sync.RWMutex
}

func NewJobScheduler(dashboardSvc *analytics.DashboardService, productRepo repositories.ProductRepository,
	cartRepo repositories.CartItemRepository, staleCartAge time.Duration, lowStockThreshold int,
	logger zerolog.Logger) (*JobScheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:         scheduler,
		dashboardSvc:      dashboardSvc,
		productRepo:       productRepo,
		cartRepo:          cartRepo,
		logger:            logger,
		staleCartAge:      staleCartAge,
		lowStockThreshold: lowStockThreshold,
		jobs:              make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	// Dashboard refresh job - every 5 minutes
	dashboardJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshDashboard),
		gocron.WithName("dashboard-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		js.logger.Error().Err(err).Msg("failed to create dashboard refresh job")
	} else {
		js.jobs["dashboard-refresh"] = dashboardJob
	}

	// Stale cart cleanup job - every hour
	cartJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.cleanupStaleCarts),
		gocron.WithName("stale-cart-cleanup"),
	)
	if err != nil {
		js.logger.Error().Err(err).Msg("failed to create stale cart cleanup job")
	} else {
		js.jobs["stale-cart-cleanup"] = cartJob
	}

	// Low stock alerts job - every 30 minutes
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.reportLowStock),
		gocron.WithName("low-stock-alerts"),
	)
	if err != nil {
		js.logger.Error().Err(err).Msg("failed to create low stock alerts job")
	} else {
		js.jobs["low-stock-alerts"] = alertsJob
	}

	js.logger.Info().Int("count", len(js.jobs)).Msg("registered background jobs")
}

func (js *JobScheduler) refreshDashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := js.dashboardSvc.Refresh(ctx); err != nil {
		js.logger.Error().Err(err).Msg("dashboard refresh failed")
		return
	}
	js.logger.Debug().Msg("dashboard metrics refreshed")
}

func (js *JobScheduler) cleanupStaleCarts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-js.staleCartAge)
	removed, err := js.cartRepo.DeleteStale(ctx, cutoff)
	if err != nil {
		js.logger.Error().Err(err).Msg("stale cart cleanup failed")
		return
	}
	if removed > 0 {
		js.logger.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("cleaned up stale cart lines")
	}
}

func (js *JobScheduler) reportLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := js.productRepo.ListLowStock(ctx, js.lowStockThreshold)
	if err != nil {
		js.logger.Error().Err(err).Msg("low stock scan failed")
		return
	}
	for _, p := range products {
		js.logger.Warn().
			Str("product_id", p.ID.String()).
			Str("name", p.Name).
			Int("stock", p.Stock).
			Msg("product stock running low")
	}
}
