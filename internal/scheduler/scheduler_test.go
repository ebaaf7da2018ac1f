package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitForFire(t *testing.T, fires *atomic.Int32, within time.Duration) {
	t.Helper()
	deadline := time.After(within)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			t.Fatalf("job did not fire within %s, fires=%d", within, fires.Load())
		case <-ticker.C:
			if fires.Load() > 0 {
				return
			}
		}
	}
}

func TestSchedulerFiresCronJob(t *testing.T) {
	var fires atomic.Int32
	sched := New()
	if err := sched.Add("every-second", "* * * * * *", func() { fires.Add(1) }); err != nil {
		t.Fatal(err)
	}
	sched.Start()
	defer sched.Stop()

	waitForFire(t, &fires, 2500*time.Millisecond)
}

func TestSchedulerEvery(t *testing.T) {
	var fires atomic.Int32
	sched := New()
	if err := sched.Every("presence", time.Second, func() { fires.Add(1) }); err != nil {
		t.Fatal(err)
	}
	sched.Start()
	defer sched.Stop()

	waitForFire(t, &fires, 2500*time.Millisecond)
}

func TestSchedulerRecoversPanics(t *testing.T) {
	var fires atomic.Int32
	sched := New()
	if err := sched.Add("panics", "* * * * * *", func() {
		fires.Add(1)
		panic("boom")
	}); err != nil {
		t.Fatal(err)
	}
	sched.Start()
	defer sched.Stop()

	waitForFire(t, &fires, 2500*time.Millisecond)
}

func TestSchedulerRejectsInvalidSchedules(t *testing.T) {
	sched := New()
	if err := sched.Add("bad", "not a schedule", func() {}); err == nil {
		t.Error("expected error for invalid cron expression")
	}
	if err := sched.Every("fast", 10*time.Millisecond, func() {}); err == nil {
		t.Error("expected error for sub-second interval")
	}
	if n := sched.Len(); n != 0 {
		t.Errorf("expected no entries, got %d", n)
	}
}

func TestSchedulerNotStarted(t *testing.T) {
	var fires atomic.Int32
	sched := New()
	if err := sched.Every("idle", time.Second, func() { fires.Add(1) }); err != nil {
		t.Fatal(err)
	}
	time.Sleep(1500 * time.Millisecond)

	if n := fires.Load(); n != 0 {
		t.Errorf("expected 0 fires before Start, got %d", n)
	}
	if n := sched.Len(); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
}
