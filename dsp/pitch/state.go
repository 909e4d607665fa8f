package pitch

// State is the tracker lock state after a frame.
type State int

const (
	// StateIdle means no pitch has been acquired yet.
	StateIdle State = iota

	// StateCooldown means the output is frozen after a rejected jump.
	StateCooldown

	// StateUnstable means a pitch is held but has not been continuous for
	// MinStableFrames frames.
	StateUnstable

	// StateStable means the pitch has been continuous for at least
	// MinStableFrames frames.
	StateStable
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCooldown:
		return "cooldown"
	case StateUnstable:
		return "unstable"
	case StateStable:
		return "stable"
	default:
		return "unknown"
	}
}

// Event classifies one frame. Conditions are checked in declaration order.
type Event int

const (
	// EventNone is reported before the first frame.
	EventNone Event = iota

	// EventJump: anchored and the estimate is more than JumpCents away, or
	// zero. Arms the cooldown and clears the stable count.
	EventJump

	// EventCooldownTick: cooldown pending. Counts it down.
	EventCooldownTick

	// EventSilence: the estimate is zero. Clears the stable count.
	EventSilence

	// EventContinue: anchored and within tolerance. Smooths, counts a stable
	// frame and moves the anchor.
	EventContinue

	// EventAcquire: first estimate or a note change inside the jump
	// threshold. Snaps to the estimate and clears the stable count.
	EventAcquire
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventJump:
		return "jump"
	case EventCooldownTick:
		return "cooldown-tick"
	case EventSilence:
		return "silence"
	case EventContinue:
		return "continue"
	case EventAcquire:
		return "acquire"
	default:
		return "unknown"
	}
}

// Frame transitions. The smoothed pitch is returned unchanged for every
// event except Continue and Acquire.
//
//	event         state after the frame
//	Jump          Cooldown
//	CooldownTick  Cooldown while frames remain, else Unstable (Idle if never locked)
//	Silence       Unstable (Idle if never locked)
//	Continue      Stable once MinStableFrames is reached, else Unstable
//	Acquire       Unstable
func (t *Tracker) next(ev Event) State {
	switch ev {
	case EventJump:
		return StateCooldown
	case EventCooldownTick:
		if t.cooldown > 0 {
			return StateCooldown
		}
	case EventContinue:
		if t.stable >= t.cfg.MinStableFrames {
			return StateStable
		}
	}

	if t.smoothed <= 0 {
		return StateIdle
	}

	return StateUnstable
}
