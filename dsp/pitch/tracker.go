package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/note"
)

// smoothing is the weight of the previous smoothed pitch in the exponential
// moving average.
const smoothing = 0.9

// Tracker turns per-frame estimates into a flicker-resistant tuner reading.
type Tracker struct {
	cfg Config
	det *Detector

	anchor   float64 // last accepted raw estimate, 0 = none
	smoothed float64 // 0 = no lock
	detected float64 // raw estimate of the last frame
	stable   int
	cooldown int
	rejected int // consecutive jump frames
	margin   float64
	inTune   bool

	state State
	event Event
}

// NewTracker creates a tracker with its own Detector.
func NewTracker(opts ...Option) (*Tracker, error) {
	cfg := applyOptions(opts)
	if err := cfg.validateTracker(); err != nil {
		return nil, err
	}

	det, err := newDetector(cfg)
	if err != nil {
		return nil, err
	}

	return &Tracker{cfg: cfg, det: det, margin: cfg.HysteresisMargin}, nil
}

// Config returns the tracker settings. HysteresisMargin reflects the value
// given at construction.
func (t *Tracker) Config() Config { return t.cfg }

// Detector returns the detector the tracker feeds.
func (t *Tracker) Detector() *Detector { return t.det }

// Update analyses one hop's window and returns the smoothed pitch in Hz,
// 0 while nothing has been acquired.
func (t *Tracker) Update(samples []int16) float64 {
	p := t.det.Detect(samples)
	t.detected = p

	ev := t.classify(p)
	t.apply(ev, p)
	t.event = ev
	t.state = t.next(ev)

	return t.smoothed
}

func (t *Tracker) classify(p float64) Event {
	jump := 0.0
	if t.anchor > 0 {
		jump = centsApart(p, t.anchor)
	}

	switch {
	case jump > t.cfg.JumpCents:
		return EventJump
	case t.cooldown > 0:
		return EventCooldownTick
	case p == 0:
		return EventSilence
	case t.anchor > 0 && jump <= t.cfg.ToleranceCents:
		return EventContinue
	default:
		return EventAcquire
	}
}

func (t *Tracker) apply(ev Event, p float64) {
	if ev != EventJump {
		t.rejected = 0
	}

	switch ev {
	case EventJump:
		t.cooldown = t.cfg.CooldownFrames
		t.stable = 0
		t.rejected++
		if t.cfg.ReanchorFrames > 0 && t.rejected >= t.cfg.ReanchorFrames {
			t.anchor = 0
			t.rejected = 0
		}
	case EventCooldownTick:
		t.cooldown--
	case EventSilence:
		t.stable = 0
	case EventContinue:
		t.smoothed = smoothing*t.smoothed + (1-smoothing)*p
		t.stable++
		t.anchor = p
	case EventAcquire:
		t.stable = 0
		t.smoothed = p
		t.anchor = p
	}
}

// centsApart returns |1200*log2(p/anchor)|, +Inf when p is not positive.
func centsApart(p, anchor float64) float64 {
	if p <= 0 {
		return math.Inf(1)
	}
	return math.Abs(core.Cents(p, anchor))
}

// IsStable reports whether the pitch has been continuous for at least
// MinStableFrames frames.
func (t *Tracker) IsStable() bool { return t.stable >= t.cfg.MinStableFrames }

// SmoothedPitch returns the current output in Hz, 0 = no lock.
func (t *Tracker) SmoothedPitch() float64 { return t.smoothed }

// AnchorPitch returns the last accepted raw estimate, 0 = none.
func (t *Tracker) AnchorPitch() float64 { return t.anchor }

// LastDetected returns the raw estimate of the most recent frame.
func (t *Tracker) LastDetected() float64 { return t.detected }

// StableFrames returns the consecutive continuous frame count.
func (t *Tracker) StableFrames() int { return t.stable }

// CooldownRemaining returns the frozen frames still pending.
func (t *Tracker) CooldownRemaining() int { return t.cooldown }

// State returns the lock state after the most recent frame.
func (t *Tracker) State() State { return t.state }

// LastEvent returns the classification of the most recent frame.
func (t *Tracker) LastEvent() Event { return t.event }

// CentsFrom returns the offset of the smoothed pitch from ref in cents,
// or 0 when either frequency is not positive.
func (t *Tracker) CentsFrom(ref float64) float64 {
	if t.smoothed <= 0 || !(ref > 0) {
		return 0
	}
	return core.Cents(t.smoothed, ref)
}

// IsInTune reports whether the smoothed pitch is within tolerance of ref.
// Once in tune, the window widens by the hysteresis margin until the pitch
// leaves it. Without a lock the result is false and the hysteresis resets.
func (t *Tracker) IsInTune(ref float64) bool {
	if t.smoothed <= 0 || !core.IsFinitePositive(ref) {
		t.inTune = false
		return false
	}

	limit := t.cfg.ToleranceCents
	if t.inTune {
		limit += t.margin
	}

	t.inTune = math.Abs(t.CentsFrom(ref)) < limit

	return t.inTune
}

// HysteresisMargin returns the current margin in cents.
func (t *Tracker) HysteresisMargin() float64 { return t.margin }

// SetHysteresisMargin changes the margin used by subsequent IsInTune calls.
func (t *Tracker) SetHysteresisMargin(cents float64) error {
	if !isFiniteNonNegative(cents) {
		return fmt.Errorf("%w: hysteresis margin must be non-negative and finite: %f", ErrInvalidConfig, cents)
	}

	t.margin = cents

	return nil
}

// Reset clears all tracking state. Configuration and margin are kept.
func (t *Tracker) Reset() {
	t.anchor = 0
	t.smoothed = 0
	t.detected = 0
	t.stable = 0
	t.cooldown = 0
	t.rejected = 0
	t.inTune = false
	t.state = StateIdle
	t.event = EventNone
}

// Reading is a snapshot for a tuner display.
type Reading struct {
	Frequency float64 // smoothed pitch, Hz
	Detected  float64 // raw estimate of the last frame, Hz
	Reference float64 // target the cents are measured against, Hz
	Cents     float64 // offset from Reference
	Stable    bool
	InTune    bool
	State     State
	Note      note.Note // nearest note to Frequency
	HasNote   bool
}

// Reading evaluates the tracker against ref. A non-positive ref selects the
// nearest equal-tempered note as the target. Like IsInTune, it advances the
// in-tune hysteresis.
func (t *Tracker) Reading(ref float64) Reading {
	r := Reading{
		Frequency: t.smoothed,
		Detected:  t.detected,
		Stable:    t.IsStable(),
		State:     t.state,
	}

	r.Note, r.HasNote = note.Nearest(t.smoothed, t.cfg.ConcertPitch)

	if !(ref > 0) && r.HasNote {
		ref = r.Note.Frequency
	}

	r.Reference = ref
	r.Cents = t.CentsFrom(ref)
	r.InTune = t.IsInTune(ref)

	return r
}
