package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeOrphans struct {
	n   int64
	err error
}

func (f fakeOrphans) CountOrphanedWaitlistUsers(context.Context) (int64, error) {
	return f.n, f.err
}

func TestOrphanMonitorCheck(t *testing.T) {
	m := NewOrphanMonitor(fakeOrphans{n: 3}, time.Minute)
	n, err := m.Check(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("check = %d, %v", n, err)
	}
	if got := testutil.ToFloat64(OrphanedWaitlistUsers); got != 3 {
		t.Fatalf("gauge = %v", got)
	}

	m = NewOrphanMonitor(fakeOrphans{err: errors.New("db down")}, time.Minute)
	if _, err := m.Check(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	// gauge keeps the last good value
	if got := testutil.ToFloat64(OrphanedWaitlistUsers); got != 3 {
		t.Fatalf("gauge = %v", got)
	}
}

// signalOrphans reports every count on a channel.
type signalOrphans struct {
	n     int64
	calls chan struct{}
}

func (f signalOrphans) CountOrphanedWaitlistUsers(context.Context) (int64, error) {
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return f.n, nil
}

func TestOrphanMonitorChecksOnStart(t *testing.T) {
	counter := signalOrphans{n: 7, calls: make(chan struct{}, 1)}
	m := NewOrphanMonitor(counter, time.Hour)
	if err := m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer m.Stop()

	select {
	case <-counter.calls:
	case <-time.After(5 * time.Second):
		t.Fatalf("no check before the first interval elapsed")
	}

	deadline := time.Now().Add(time.Second)
	for testutil.ToFloat64(OrphanedWaitlistUsers) != 7 {
		if time.Now().After(deadline) {
			t.Fatalf("gauge = %v", testutil.ToFloat64(OrphanedWaitlistUsers))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestOrphanMonitorStartStop(t *testing.T) {
	m := NewOrphanMonitor(fakeOrphans{}, time.Hour)
	if err := m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.Stop()
}
