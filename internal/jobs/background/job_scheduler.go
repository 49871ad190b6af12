package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"laundryops/internal/config"
	"laundryops/internal/jobs"
	"laundryops/internal/services"
	"laundryops/pkg/logger"
	"laundryops/pkg/metrics"

	"github.com/go-co-op/gocron/v2"
)

const (
	LowStockScanJob      = "low-stock-scan"
	InventorySnapshotJob = "inventory-snapshot"

	jobTimeout = 5 * time.Minute
)

// JobScheduler runs the periodic inventory jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	alerts    *jobs.InventoryAlertService
	exports   services.ExportService
	metrics   *metrics.JobMetrics
	logg      *logger.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler registers the low-stock scan, and the snapshot export when exports
// is non-nil.
func NewJobScheduler(cfg config.JobsConfig, alerts *jobs.InventoryAlertService, exports services.ExportService,
	m *metrics.JobMetrics, logg *logger.Logger) (*JobScheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		alerts:    alerts,
		exports:   exports,
		metrics:   m,
		logg:      logg,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.AddJob(LowStockScanJob, cfg.LowStockInterval, js.scanLowStock); err != nil {
		return nil, err
	}
	if exports != nil {
		if err := js.AddJob(InventorySnapshotJob, cfg.SnapshotInterval, js.exportSnapshot); err != nil {
			return nil, err
		}
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logg.Info(js.logg.WithField(context.Background(), "jobs", js.names()), "starting job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs to finish.
func (js *JobScheduler) Stop() error {
	js.logg.Info(context.Background(), "stopping job scheduler")
	return js.scheduler.Shutdown()
}

// AddJob schedules fn every interval. Runs never overlap; a run that is still busy
// when the next one is due pushes it back.
func (js *JobScheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { js.run(name, fn) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	js.jobs[name] = job
	return nil
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

// JobStatus describes one registered job.
type JobStatus struct {
	Name    string    `json:"name"`
	LastRun time.Time `json:"last_run,omitempty"`
	NextRun time.Time `json:"next_run,omitempty"`
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	statuses := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		status := JobStatus{Name: name}
		if last, err := job.LastRun(); err == nil {
			status.LastRun = last
		}
		if next, err := job.NextRun(); err == nil {
			status.NextRun = next
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

func (js *JobScheduler) names() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (js *JobScheduler) run(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	ctx = js.logg.WithField(ctx, "job", name)

	start := time.Now()
	err := fn(ctx)
	js.metrics.Record(name, time.Since(start), err)
	if err != nil {
		js.logg.Error(ctx, "job failed", err)
		return
	}
	js.logg.Debug(ctx, "job finished")
}

func (js *JobScheduler) scanLowStock(ctx context.Context) error {
	raised, err := js.alerts.Run(ctx)
	if err != nil {
		return err
	}
	if raised > 0 {
		js.logg.Info(js.logg.WithField(ctx, "alerts", raised), "low stock scan raised alerts")
	}
	return nil
}

func (js *JobScheduler) exportSnapshot(ctx context.Context) error {
	result, err := js.exports.ExportInventorySnapshot(ctx)
	if err != nil {
		return err
	}
	js.logg.Info(js.logg.WithFields(ctx, map[string]any{
		"object_key": result.ObjectKey,
		"rows":       result.Rows,
	}), "inventory snapshot exported")
	return nil
}
