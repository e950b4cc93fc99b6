package service

import (
	"context"
	"time"

	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

// OrphanCounter counts waitlist users that have no signup row.
type OrphanCounter interface {
	CountOrphanedWaitlistUsers(ctx context.Context) (int64, error)
}

// OrphanMonitor periodically reports users left behind by a signup whose
// waitlist insert failed and whose cleanup also failed. It only reports;
// nothing is repaired automatically.
type OrphanMonitor struct {
	counter  OrphanCounter
	interval time.Duration
	sched    gocron.Scheduler
}

func NewOrphanMonitor(counter OrphanCounter, interval time.Duration) *OrphanMonitor {
	return &OrphanMonitor{counter: counter, interval: interval}
}

// Check runs one count and updates the gauge.
func (m *OrphanMonitor) Check(ctx context.Context) (int64, error) {
	n, err := m.counter.CountOrphanedWaitlistUsers(ctx)
	if err != nil {
		logger.Error("[OrphanMonitor] count failed", "error", err)
		return 0, err
	}
	OrphanedWaitlistUsers.Set(float64(n))
	if n > 0 {
		logger.Warn("[OrphanMonitor] waitlist users without signup record", "count", n)
	}
	return n, nil
}

// Start runs a check right away and then once per interval.
func (m *OrphanMonitor) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(m.interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_, _ = m.Check(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	sched.Start()
	m.sched = sched
	return nil
}

func (m *OrphanMonitor) Stop() {
	if m.sched != nil {
		if err := m.sched.Shutdown(); err != nil {
			logger.Warn("[OrphanMonitor] shutdown", "error", err)
		}
	}
}
