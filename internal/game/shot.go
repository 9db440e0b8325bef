package game

import "math"

// SessionState is where the session sits in the shot cycle.
type SessionState string

const (
	StateAwaitingPlacement SessionState = "AWAITING_PLACEMENT"
	StateAiming            SessionState = "AIMING"
	StatePowerSelect       SessionState = "POWER_SELECT"
	StateInFlight          SessionState = "IN_FLIGHT"
	StateSettled           SessionState = "SETTLED"
)

// SpinVector is the struck spin, each component in [-1, 1]. Side curves the
// cue ball's path; Vertical is the follow/screw axis.
type SpinVector struct {
	Side     float64 `json:"side"`
	Vertical float64 `json:"vertical"`
}

// ShotIntent is everything the player has dialled in for the next shot.
type ShotIntent struct {
	Angle    float64    `json:"angle"` // radians, locked at aim lock
	PullBack float64    `json:"pull_back"`
	Spin     SpinVector `json:"spin"`
}

// ShotEngine runs the aim/power/fire state machine and turns a finished
// gesture into a single impulse on the cue ball.
type ShotEngine struct {
	state     SessionState
	intent    ShotIntent
	lockPoint Vec2
}

func NewShotEngine() *ShotEngine {
	return &ShotEngine{state: StateAwaitingPlacement}
}

func (e *ShotEngine) State() SessionState { return e.state }
func (e *ShotEngine) Intent() ShotIntent  { return e.intent }

// SetSpin updates the spin vector, clamped per component. Ignored once a
// shot is in flight.
func (e *ShotEngine) SetSpin(side, vertical float64) {
	if e.state == StateInFlight {
		return
	}
	e.intent.Spin = SpinVector{
		Side:     clampFloat(side, -1, 1),
		Vertical: clampFloat(vertical, -1, 1),
	}
}

func (e *ShotEngine) ResetSpin() {
	if e.state != StateInFlight {
		e.intent.Spin = SpinVector{}
	}
}

// TrackAim follows the pointer while aiming: the angle is simply the
// bearing from the cue ball to the pointer.
func (e *ShotEngine) TrackAim(cuePos, pointer Vec2) {
	if e.state != StateAiming {
		return
	}
	d := pointer.Minus(cuePos)
	if d.IsZero() {
		return
	}
	e.intent.Angle = d.Angle()
}

// Lock freezes the aim angle and starts power selection.
func (e *ShotEngine) Lock(pointer Vec2) {
	if e.state != StateAiming {
		return
	}
	e.lockPoint = pointer
	e.intent.PullBack = 0
	e.state = StatePowerSelect
}

// Drag updates the pull-back distance while selecting power.
func (e *ShotEngine) Drag(pointer Vec2) {
	if e.state != StatePowerSelect {
		return
	}
	d := pointer.DistanceTo(e.lockPoint) * PullBackSensitivity
	e.intent.PullBack = clampFloat(d, 0, MaxPullBack)
}

// Release fires the shot if enough pull-back was drawn, otherwise cancels
// back to aiming. Returns true when a shot was actually fired. A release
// with no cue ball on the table is ignored.
func (e *ShotEngine) Release(cue *Ball, phys Physics) bool {
	if e.state != StatePowerSelect {
		return false
	}
	if cue == nil || e.intent.PullBack < MinFirePullBack {
		e.intent.PullBack = 0
		e.state = StateAiming
		return false
	}
	e.fire(cue, phys)
	return true
}

// fire applies the impulse once, atomically, and resets the intent.
func (e *ShotEngine) fire(cue *Ball, phys Physics) {
	norm := e.intent.PullBack / MaxPullBack
	magnitude := MaxImpulse * math.Pow(norm, PowerCurveExponent)

	// Side spin kicks the force vector slightly off the aim line and puts
	// angular velocity on the ball for cushion interaction.
	dir := UnitFromAngle(e.intent.Angle).Rotate(SideSpinKick * e.intent.Spin.Side)
	phys.SetAngularVelocity(cue.ID, e.intent.Spin.Side*magnitude*SideSpinAngular)

	// Top spin rolls on with less resistance, back spin checks the ball up.
	coeff := clampFloat(1-SpinFrictionSwing*e.intent.Spin.Vertical, 0.3, 1.7)
	phys.SetFrictionCoefficient(cue.ID, coeff)

	phys.ApplyImpulse(cue.ID, dir.Times(magnitude))

	e.intent = ShotIntent{}
	e.state = StateInFlight
}

// MarkSettled ends a flight once every ball has stopped.
func (e *ShotEngine) MarkSettled() {
	if e.state == StateInFlight {
		e.state = StateSettled
	}
}

// NextShot leaves the settled state: back to aiming when the cue ball
// survived, otherwise the player must place a new one.
func (e *ShotEngine) NextShot(cueAlive bool) {
	if e.state != StateSettled {
		return
	}
	if cueAlive {
		e.state = StateAiming
	} else {
		e.state = StateAwaitingPlacement
	}
}

// CuePlaced moves out of placement once a legal cue ball exists.
func (e *ShotEngine) CuePlaced() {
	if e.state == StateAwaitingPlacement {
		e.state = StateAiming
	}
}

// ForcePlacement is the manual re-place command: only honoured between
// shots, never mid-flight.
func (e *ShotEngine) ForcePlacement() bool {
	switch e.state {
	case StateAiming, StatePowerSelect:
		e.intent = ShotIntent{Spin: e.intent.Spin}
		e.state = StateAwaitingPlacement
		return true
	}
	return false
}

// AimEligible reports whether the forecast should be recomputed.
func (e *ShotEngine) AimEligible() bool {
	return e.state == StateAiming || e.state == StatePowerSelect
}
