// Package tracker converts raw playback signals, or a simulated clock when
// the playback surface is opaque, into progress updates for the library
// store.
package tracker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/drake/drivecast/internal/domain"
)

// Mode is the tracking strategy for one playback session, chosen at
// session start. The only in-session transition is the one-way fallback
// from native to estimated.
type Mode int

const (
	ModeIdle Mode = iota
	ModeNative
	ModeEstimated
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNative:
		return "native"
	case ModeEstimated:
		return "estimated"
	default:
		return "idle"
	}
}

// ProgressSink receives progress writes; the library store implements it.
type ProgressSink interface {
	UpdateProgress(id string, elapsed, duration float64) error
	RecordWatch(file domain.MediaFile) error
}

const tickInterval = time.Second

// Tracker is the per-process playback progress state machine. All event
// handlers serialize on one mutex, so a tick arriving after a visibility
// loss always observes the frozen state.
type Tracker struct {
	sink   ProgressSink
	logger *slog.Logger
	now    func() time.Time

	// tickEvery is the simulated clock period. Zero disables the internal
	// timer; callers then drive Tick themselves.
	tickEvery time.Duration

	mu          sync.Mutex
	mode        Mode
	file        domain.MediaFile
	estDuration float64
	accumulated float64
	visible     bool
	lastAdvance time.Time
	stopTick    chan struct{}
}

// New creates a tracker writing through the given sink.
func New(sink ProgressSink, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		sink:      sink,
		logger:    logger,
		now:       time.Now,
		tickEvery: tickInterval,
	}
}

// Start begins a session for the file. Any previous session is ended
// first; its timer is released and records no further progress. Estimated
// mode derives the duration from the file name and begins the simulated
// clock.
func (t *Tracker) Start(file domain.MediaFile, mode Mode) {
	t.Stop()

	t.mu.Lock()
	t.mode = mode
	t.file = file
	t.accumulated = 0
	t.visible = true
	t.lastAdvance = t.now()
	if mode == ModeEstimated {
		t.estDuration = EstimateDuration(file.Name)
	} else {
		t.estDuration = 0
	}
	est := t.estDuration
	t.mu.Unlock()

	if err := t.sink.RecordWatch(file); err != nil {
		t.logger.Warn("failed to record watch", "file", file.ID, "error", err)
	}

	t.logger.Info("tracking started", "file", file.ID, "mode", mode.String(), "estimatedDuration", est)

	if mode == ModeEstimated {
		t.startTicker()
	}
}

// Stop ends the current session and releases the tick timer. Safe to call
// when already idle.
func (t *Tracker) Stop() {
	t.mu.Lock()
	stop := t.stopTick
	t.stopTick = nil
	t.mode = ModeIdle
	t.mu.Unlock()

	if stop != nil {
		close(stop)
	}
}

// Mode returns the current tracking mode.
func (t *Tracker) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// OnTimeUpdate handles a native playback clock signal. Ignored outside
// native mode. The position is forwarded as-is, so a backward seek
// corrects the record downward.
func (t *Tracker) OnTimeUpdate(current, duration float64) {
	t.mu.Lock()
	if t.mode != ModeNative {
		t.mu.Unlock()
		return
	}
	file := t.file
	t.mu.Unlock()

	t.push(file.ID, current, duration)
}

// OnSurfaceError handles a load/decoding failure from the native playback
// surface by falling back to estimated tracking. The transition is one-way
// within a session; errors in any other mode are ignored.
func (t *Tracker) OnSurfaceError() {
	t.mu.Lock()
	if t.mode != ModeNative {
		t.mu.Unlock()
		return
	}
	t.mode = ModeEstimated
	t.estDuration = EstimateDuration(t.file.Name)
	t.accumulated = 0
	t.visible = true
	t.lastAdvance = t.now()
	file, est := t.file, t.estDuration
	t.mu.Unlock()

	t.logger.Info("falling back to estimated tracking", "file", file.ID, "estimatedDuration", est)
	t.startTicker()
}

// OnVisibilityChange freezes the simulated clock while the viewing surface
// is hidden. Losing visibility folds the wall time since the last advance
// into the accumulator; restoring resumes ticking from that value.
func (t *Tracker) OnVisibilityChange(visible bool) {
	t.mu.Lock()
	if t.mode != ModeEstimated || visible == t.visible {
		t.mu.Unlock()
		return
	}

	if !visible {
		partial := t.now().Sub(t.lastAdvance).Seconds()
		if partial > 0 && partial < tickInterval.Seconds() {
			t.accumulated += partial
		}
		t.visible = false
		file, elapsed, duration := t.file, t.accumulated, t.estDuration
		t.mu.Unlock()

		t.push(file.ID, elapsed, duration)
		t.logger.Debug("visibility lost, clock frozen", "file", file.ID, "elapsed", elapsed)
		return
	}

	t.visible = true
	t.lastAdvance = t.now()
	t.mu.Unlock()
}

// Tick advances the simulated clock by one interval. No-op unless the
// session is in estimated mode with the surface visible.
func (t *Tracker) Tick() {
	t.mu.Lock()
	if t.mode != ModeEstimated || !t.visible {
		t.mu.Unlock()
		return
	}
	t.accumulated += tickInterval.Seconds()
	t.lastAdvance = t.now()
	file, elapsed, duration := t.file, t.accumulated, t.estDuration
	t.mu.Unlock()

	t.push(file.ID, elapsed, duration)
}

// MarkWatched forces the current session's file to fully watched,
// bypassing the clock but still writing through the sink.
func (t *Tracker) MarkWatched(file domain.MediaFile) {
	duration := t.knownDuration()
	t.push(file.ID, duration, duration)
}

// SetPercent forces progress to the given percentage, using the fallback
// duration when none is known.
func (t *Tracker) SetPercent(file domain.MediaFile, percent float64) {
	duration := t.knownDuration()
	t.push(file.ID, percent/100*duration, duration)
}

// knownDuration returns the session's estimated duration when one exists,
// else the fixed fallback.
func (t *Tracker) knownDuration() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.estDuration > 0 {
		return t.estDuration
	}
	return DefaultDuration
}

func (t *Tracker) push(id string, elapsed, duration float64) {
	if err := t.sink.UpdateProgress(id, elapsed, duration); err != nil {
		t.logger.Warn("failed to persist progress", "file", id, "error", err)
	}
}

// startTicker drives Tick once per interval until Stop. The goroutine is
// tied to the session; starting a new session closes the old channel.
func (t *Tracker) startTicker() {
	if t.tickEvery <= 0 {
		return
	}
	stop := make(chan struct{})

	t.mu.Lock()
	if t.stopTick != nil {
		close(t.stopTick)
	}
	t.stopTick = stop
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(t.tickEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.Tick()
			case <-stop:
				return
			}
		}
	}()
}
