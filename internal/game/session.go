package game

import (
	"log"
	"sync"
	"time"
)

// DisplayMode selects how much aiming assistance the renderer is given.
type DisplayMode int

const (
	ModeFullForecast DisplayMode = 1 // path, bounces, ghost, deflections
	ModeGhostOnly    DisplayMode = 2 // straight path and ghost contact only
	ModeNoAssist     DisplayMode = 3
)

// Session is one player's table: registry, geometry, shot engine and the
// physics handle, advanced by a single ticker. All reads and writes happen
// under one lock in strict step order, so a step is never interleaved with
// a gesture.
type Session struct {
	ID    string `json:"id"`
	Token string `json:"token"`

	geom *Geometry
	reg  *Registry
	phys Physics
	shot *ShotEngine

	forecast     *Forecast
	mode         DisplayMode
	showForecast bool
	events       []CaptureEvent

	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`

	mu sync.RWMutex
}

// NewSession racks a fresh table and mirrors it into the physics engine.
// The geometry must be the same one the physics engine was built from.
func NewSession(id, token string, geom *Geometry, phys Physics) *Session {
	s := &Session{
		ID:           id,
		Token:        token,
		geom:         geom,
		phys:         phys,
		shot:         NewShotEngine(),
		mode:         ModeFullForecast,
		showForecast: true,
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
	}
	s.reg = NewRegistry(s.geom)
	s.reg.SetupRack()
	for _, b := range s.reg.AllBalls() {
		phys.AddBall(b.ID, b.Position)
	}
	return s
}

// Step advances the session one simulation tick: physics, then capture,
// then the settle check, then (when aim-eligible) a fresh forecast.
func (s *Session) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.shot.State() {
	case StateInFlight:
		s.phys.Step()
		s.syncFromPhysics()
		if evs := DetectCaptures(s.geom, s.reg, s.phys); len(evs) > 0 {
			s.events = append(s.events, evs...)
		}
		if AllSettled(s.reg) {
			s.shot.MarkSettled()
		}
		s.forecast = nil

	case StateSettled:
		s.shot.NextShot(s.reg.Cue() != nil)
	}

	if s.shot.AimEligible() {
		s.refreshForecast()
	}
}

func (s *Session) syncFromPhysics() {
	for _, b := range s.reg.AllBalls() {
		b.Position = s.phys.Position(b.ID)
		b.Velocity = s.phys.Velocity(b.ID)
	}
}

// refreshForecast recomputes the prediction from scratch; it carries no
// state between invocations beyond the current aim, spin and positions.
func (s *Session) refreshForecast() {
	if !s.showForecast || s.mode == ModeNoAssist || s.reg.Cue() == nil {
		s.forecast = nil
		return
	}
	intent := s.shot.Intent()
	f := PredictTrajectory(s.geom, s.reg.Snapshot(), intent.Angle, intent.Spin)
	if s.mode == ModeGhostOnly {
		trimmed := make([]PathPoint, 0, len(f.Path))
		for _, p := range f.Path {
			if p.Bounce > 0 {
				break
			}
			trimmed = append(trimmed, p)
		}
		f.Path = trimmed
		f.Deflections = nil
	}
	s.forecast = f
}

// PointerDown is the press gesture: it places the cue ball while awaiting
// placement, or locks the aim and starts power selection.
func (s *Session) PointerDown(p Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActivity = time.Now()

	switch s.shot.State() {
	case StateAwaitingPlacement:
		s.placeCue(p)
	case StateAiming:
		if cue := s.reg.Cue(); cue != nil {
			s.shot.TrackAim(cue.Position, p)
		}
		s.shot.Lock(p)
	}
}

// PointerMove tracks the aim angle or the pull-back, depending on state.
func (s *Session) PointerMove(p Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.shot.State() {
	case StateAiming:
		if cue := s.reg.Cue(); cue != nil {
			s.shot.TrackAim(cue.Position, p)
		}
	case StatePowerSelect:
		s.shot.Drag(p)
	}
}

// PointerUp releases: fires the shot when enough pull-back was drawn.
func (s *Session) PointerUp(p Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActivity = time.Now()

	if s.shot.State() != StatePowerSelect {
		return
	}
	s.shot.Drag(p)
	if s.shot.Release(s.reg.Cue(), s.phys) {
		s.forecast = nil
		log.Printf("[SESSION] %s shot fired", s.ID)
	}
}

func (s *Session) placeCue(p Vec2) bool {
	b, ok := s.reg.Place(CategoryCue, p)
	if !ok {
		return false
	}
	s.phys.AddBall(b.ID, b.Position)
	s.shot.CuePlaced()
	return true
}

// SetSpin updates the dialled spin for the next shot.
func (s *Session) SetSpin(side, vertical float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shot.SetSpin(side, vertical)
}

// Command handles the discrete key commands from the input layer.
func (s *Session) Command(cmd string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActivity = time.Now()

	switch cmd {
	case "mode_1":
		s.mode = ModeFullForecast
	case "mode_2":
		s.mode = ModeGhostOnly
	case "mode_3":
		s.mode = ModeNoAssist
	case "reset_spin":
		s.shot.ResetSpin()
	case "toggle_forecast":
		s.showForecast = !s.showForecast
	case "replace_cue":
		if !s.shot.ForcePlacement() {
			return false
		}
		if cue := s.reg.Cue(); cue != nil {
			s.reg.Remove(cue.ID)
			s.phys.RemoveBall(cue.ID)
		}
		s.forecast = nil
	case "new_rack":
		return s.rerack()
	default:
		return false
	}
	return true
}

// rerack starts a fresh frame; refused mid-flight.
func (s *Session) rerack() bool {
	switch s.shot.State() {
	case StateInFlight, StatePowerSelect:
		return false
	}
	for _, b := range s.reg.AllBalls() {
		s.phys.RemoveBall(b.ID)
	}
	s.reg.SetupRack()
	for _, b := range s.reg.AllBalls() {
		s.phys.AddBall(b.ID, b.Position)
	}
	s.shot = NewShotEngine()
	s.forecast = nil
	log.Printf("[SESSION] %s re-racked", s.ID)
	return true
}

// State returns the current shot-cycle state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shot.State()
}

// Geometry returns the immutable table layout for the renderer.
func (s *Session) Geometry() *Geometry {
	return s.geom
}

// Snapshot builds the per-tick render payload: balls, state, intent,
// forecast and any capture events since the last snapshot (events drain).
func (s *Session) Snapshot() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	balls := s.reg.Snapshot()
	events := s.events
	s.events = nil

	return map[string]interface{}{
		"session_id":    s.ID,
		"state":         s.shot.State(),
		"balls":         balls,
		"shot_intent":   s.shot.Intent(),
		"forecast":      s.forecast,
		"captures":      events,
		"display_mode":  s.mode,
		"show_forecast": s.showForecast,
		"red_count":     s.reg.RedCount(),
	}
}

// Expired reports whether the session has been idle past the deadline.
func (s *Session) Expired(idleLimit time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.LastActivity) > idleLimit
}
