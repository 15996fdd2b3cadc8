package background

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"leaseadmin/internal/repositories"
	"leaseadmin/internal/services"
)

// JobScheduler runs the gateway's periodic work: refreshing the lookup
// catalogs and sweeping expired audit rows.
type JobScheduler struct {
	scheduler gocron.Scheduler
	lookups   services.LookupService
	audit     repositories.AuditLogsRepository
	logger    *zap.Logger

	lookupInterval time.Duration
	retention      time.Duration
}

func NewJobScheduler(lookups services.LookupService, audit repositories.AuditLogsRepository, lookupInterval time.Duration, retentionDays int, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if lookupInterval <= 0 {
		lookupInterval = 10 * time.Minute
	}
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &JobScheduler{
		scheduler:      scheduler,
		lookups:        lookups,
		audit:          audit,
		logger:         logger,
		lookupInterval: lookupInterval,
		retention:      time.Duration(retentionDays) * 24 * time.Hour,
	}, nil
}

func (js *JobScheduler) Start() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(js.lookupInterval),
		gocron.NewTask(js.refreshLookups),
		gocron.WithName("lookup-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	_, err = js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.sweepAudit),
		gocron.WithName("audit-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	js.scheduler.Start()
	js.logger.Info("background jobs started",
		zap.Duration("lookup_interval", js.lookupInterval),
		zap.Duration("audit_retention", js.retention))
	return nil
}

func (js *JobScheduler) Stop() error {
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) refreshLookups() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := js.lookups.RefreshAll(ctx); err != nil {
		js.logger.Warn("lookup refresh failed", zap.Error(err))
		return
	}
	js.logger.Debug("lookup catalogs refreshed")
}

func (js *JobScheduler) sweepAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-js.retention)
	deleted, err := js.audit.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		js.logger.Error("audit sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		js.logger.Info("audit sweep done", zap.Int64("deleted", deleted))
	}
}
