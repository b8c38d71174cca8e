package tracker

import (
	"sync"
	"testing"
	"time"

	"github.com/drake/drivecast/internal/domain"
)

type fakeSink struct {
	mu       sync.Mutex
	elapsed  float64
	duration float64
	updates  int
	watches  []string
}

func (f *fakeSink) UpdateProgress(id string, elapsed, duration float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elapsed = elapsed
	f.duration = duration
	f.updates++
	return nil
}

func (f *fakeSink) RecordWatch(file domain.MediaFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watches = append(f.watches, file.ID)
	return nil
}

func (f *fakeSink) last() (float64, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.elapsed, f.duration
}

func newTestTracker(sink *fakeSink) *Tracker {
	tr := New(sink, nil)
	tr.now = func() time.Time { return time.Unix(1000, 0) }
	tr.tickEvery = 0 // ticks are driven by the test
	return tr
}

func TestStartRecordsWatch(t *testing.T) {
	sink := &fakeSink{}
	tr := newTestTracker(sink)
	defer tr.Stop()

	tr.Start(domain.MediaFile{ID: "v1", Name: "Lesson One.mp4"}, ModeNative)

	if len(sink.watches) != 1 || sink.watches[0] != "v1" {
		t.Fatalf("watches = %v", sink.watches)
	}
	if tr.Mode() != ModeNative {
		t.Fatalf("mode = %v", tr.Mode())
	}
}

func TestNativeTimeUpdates(t *testing.T) {
	sink := &fakeSink{}
	tr := newTestTracker(sink)
	defer tr.Stop()

	tr.Start(domain.MediaFile{ID: "v1", Name: "clip.mp4"}, ModeNative)
	tr.OnTimeUpdate(12.5, 600)

	elapsed, duration := sink.last()
	if elapsed != 12.5 || duration != 600 {
		t.Fatalf("last update = (%v, %v)", elapsed, duration)
	}

	// A backward seek corrects the record downward.
	tr.OnTimeUpdate(4, 600)
	if elapsed, _ := sink.last(); elapsed != 4 {
		t.Fatalf("elapsed after seek = %v", elapsed)
	}
}

func TestEstimatedTicksAccumulate(t *testing.T) {
	sink := &fakeSink{}
	tr := newTestTracker(sink)
	defer tr.Stop()

	tr.Start(domain.MediaFile{ID: "v1", Name: "Quick Recap 45min.mp4"}, ModeEstimated)
	for i := 0; i < 5; i++ {
		tr.Tick()
	}

	elapsed, duration := sink.last()
	if elapsed != 5 {
		t.Fatalf("elapsed = %v, want 5", elapsed)
	}
	if duration != 2700 {
		t.Fatalf("duration = %v, want 2700 from the name", duration)
	}
}

func TestVisibilityFreezesClock(t *testing.T) {
	sink := &fakeSink{}
	tr := newTestTracker(sink)
	defer tr.Stop()

	tr.Start(domain.MediaFile{ID: "v1", Name: "clip.mp4"}, ModeEstimated)
	for i := 0; i < 5; i++ {
		tr.Tick()
	}

	tr.OnVisibilityChange(false)

	// Ticks while hidden must not advance the clock.
	tr.Tick()
	tr.Tick()
	if elapsed, _ := sink.last(); elapsed != 5 {
		t.Fatalf("elapsed while hidden = %v, want 5", elapsed)
	}

	tr.OnVisibilityChange(true)
	tr.Tick()
	if elapsed, _ := sink.last(); elapsed != 6 {
		t.Fatalf("elapsed after restore = %v, want 6", elapsed)
	}
}

func TestVisibilityLossFoldsPartialSecond(t *testing.T) {
	sink := &fakeSink{}
	tr := New(sink, nil)
	defer tr.Stop()

	current := time.Unix(1000, 0)
	tr.now = func() time.Time { return current }
	tr.tickEvery = 0

	tr.Start(domain.MediaFile{ID: "v1", Name: "clip.mp4"}, ModeEstimated)
	tr.Tick()

	// 400ms of wall time pass before the surface is hidden.
	current = current.Add(400 * time.Millisecond)
	tr.OnVisibilityChange(false)

	if elapsed, _ := sink.last(); elapsed != 1.4 {
		t.Fatalf("elapsed = %v, want 1.4", elapsed)
	}
}

func TestSurfaceErrorFallsBackToEstimated(t *testing.T) {
	sink := &fakeSink{}
	tr := newTestTracker(sink)
	defer tr.Stop()

	tr.Start(domain.MediaFile{ID: "v1", Name: "Go Fundamentals.mp4"}, ModeNative)
	tr.OnSurfaceError()

	if tr.Mode() != ModeEstimated {
		t.Fatalf("mode after error = %v", tr.Mode())
	}

	tr.Tick()
	elapsed, duration := sink.last()
	if elapsed != 1 || duration != 1200 {
		t.Fatalf("after fallback = (%v, %v)", elapsed, duration)
	}

	// Native updates are ignored once fallen back.
	tr.OnTimeUpdate(500, 600)
	if elapsed, _ := sink.last(); elapsed != 1 {
		t.Fatalf("native update leaked through: %v", elapsed)
	}
}

func TestStopEndsSession(t *testing.T) {
	sink := &fakeSink{}
	tr := newTestTracker(sink)

	tr.Start(domain.MediaFile{ID: "v1", Name: "clip.mp4"}, ModeEstimated)
	tr.Tick()
	tr.Stop()

	tr.Tick()
	if elapsed, _ := sink.last(); elapsed != 1 {
		t.Fatalf("tick after stop advanced the clock: %v", elapsed)
	}
	if tr.Mode() != ModeIdle {
		t.Fatalf("mode after stop = %v", tr.Mode())
	}
}

func TestManualOverrides(t *testing.T) {
	sink := &fakeSink{}
	tr := newTestTracker(sink)

	// No session: the fixed fallback duration backs the override.
	tr.MarkWatched(domain.MediaFile{ID: "v1", Name: "clip.mp4"})
	elapsed, duration := sink.last()
	if elapsed != DefaultDuration || duration != DefaultDuration {
		t.Fatalf("MarkWatched wrote (%v, %v)", elapsed, duration)
	}

	tr.SetPercent(domain.MediaFile{ID: "v1", Name: "clip.mp4"}, 50)
	elapsed, duration = sink.last()
	if elapsed != DefaultDuration/2 || duration != DefaultDuration {
		t.Fatalf("SetPercent wrote (%v, %v)", elapsed, duration)
	}
}

func TestManualOverrideUsesSessionEstimate(t *testing.T) {
	sink := &fakeSink{}
	tr := newTestTracker(sink)
	defer tr.Stop()

	file := domain.MediaFile{ID: "v1", Name: "Quick Recap 45min.mp4"}
	tr.Start(file, ModeEstimated)

	tr.MarkWatched(file)
	elapsed, duration := sink.last()
	if elapsed != 2700 || duration != 2700 {
		t.Fatalf("MarkWatched wrote (%v, %v), want session estimate", elapsed, duration)
	}
}
