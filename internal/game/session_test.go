package game

import (
	"math"
	"testing"
)

// stubPhysics is a deterministic in-package Physics implementation: Euler
// integration, equal-mass elastic ball exchange, cushion reflection against
// the interior boundary and linear rolling resistance. It keeps the session
// tests independent of the real engine.
type stubPhysics struct {
	geom  *Geometry
	pos   map[BallID]Vec2
	vel   map[BallID]Vec2
	coeff map[BallID]float64
	omega map[BallID]float64
	ids   []BallID
}

func newStubPhysics(geom *Geometry) *stubPhysics {
	return &stubPhysics{
		geom:  geom,
		pos:   make(map[BallID]Vec2),
		vel:   make(map[BallID]Vec2),
		coeff: make(map[BallID]float64),
		omega: make(map[BallID]float64),
	}
}

func (p *stubPhysics) AddBall(id BallID, pos Vec2) {
	if _, ok := p.pos[id]; ok {
		return
	}
	p.pos[id] = pos
	p.vel[id] = Vec2{}
	p.coeff[id] = 1
	p.ids = append(p.ids, id)
}

func (p *stubPhysics) RemoveBall(id BallID) {
	delete(p.pos, id)
	delete(p.vel, id)
	delete(p.coeff, id)
	delete(p.omega, id)
	for i, v := range p.ids {
		if v == id {
			p.ids = append(p.ids[:i], p.ids[i+1:]...)
			break
		}
	}
}

func (p *stubPhysics) SetPosition(id BallID, pos Vec2) { p.pos[id] = pos }
func (p *stubPhysics) SetVelocity(id BallID, vel Vec2) { p.vel[id] = vel }

func (p *stubPhysics) ApplyImpulse(id BallID, impulse Vec2) {
	p.vel[id] = p.vel[id].Plus(impulse) // unit mass
}

func (p *stubPhysics) SetAngularVelocity(id BallID, omega float64) { p.omega[id] = omega }
func (p *stubPhysics) SetFrictionCoefficient(id BallID, c float64) { p.coeff[id] = c }
func (p *stubPhysics) Position(id BallID) Vec2                     { return p.pos[id] }
func (p *stubPhysics) Velocity(id BallID) Vec2                     { return p.vel[id] }

func (p *stubPhysics) Step() {
	// Integrate and reflect off the interior boundary.
	for _, id := range p.ids {
		next := p.pos[id].Plus(p.vel[id].Times(StepSeconds))
		v := p.vel[id]
		if next.X < p.geom.Inner.Min.X || next.X > p.geom.Inner.Max.X {
			v.X = -v.X
		}
		if next.Y < p.geom.Inner.Min.Y || next.Y > p.geom.Inner.Max.Y {
			v.Y = -v.Y
		}
		p.vel[id] = v
		p.pos[id] = p.pos[id].Plus(v.Times(StepSeconds))
	}

	// Equal-mass elastic exchange for converging overlapping pairs.
	for i := 0; i < len(p.ids); i++ {
		for j := i + 1; j < len(p.ids); j++ {
			a, b := p.ids[i], p.ids[j]
			n := p.pos[b].Minus(p.pos[a])
			if n.Magnitude() >= BallDiameter || n.IsZero() {
				continue
			}
			n = n.Normalize()
			va, vb := p.vel[a], p.vel[b]
			approach := va.Minus(vb).Dot(n)
			if approach <= 0 {
				continue
			}
			p.vel[a] = va.Minus(n.Times(va.Dot(n))).Plus(n.Times(vb.Dot(n)))
			p.vel[b] = vb.Minus(n.Times(vb.Dot(n))).Plus(n.Times(va.Dot(n)))
		}
	}

	// Rolling resistance and stop clamp.
	for _, id := range p.ids {
		v := p.vel[id]
		speed := v.Magnitude()
		if speed == 0 {
			continue
		}
		speed -= 200 * p.coeff[id] * StepSeconds
		if speed < 12 {
			p.vel[id] = Vec2{}
			continue
		}
		p.vel[id] = v.Normalize().Times(speed)
	}
}

func newTestSession() (*Session, *stubPhysics, *Geometry) {
	geom := NewGeometry(DefaultDimensions())
	phys := newStubPhysics(geom)
	s := NewSession("s1", "t1", geom, phys)
	return s, phys, geom
}

func apexRed(s *Session) *Ball {
	var apex *Ball
	for _, b := range s.reg.AllBalls() {
		if b.Category != CategoryRed {
			continue
		}
		if apex == nil || b.Position.Y < apex.Position.Y {
			apex = b
		}
	}
	return apex
}

func TestSessionStartsAwaitingPlacement(t *testing.T) {
	s, _, _ := newTestSession()
	if s.State() != StateAwaitingPlacement {
		t.Errorf("new session in state %s, want %s", s.State(), StateAwaitingPlacement)
	}
}

func TestPlacementGestureCreatesCueBall(t *testing.T) {
	s, phys, geom := newTestSession()

	// Outside the D: ignored, still awaiting.
	s.PointerDown(NewVec2(0, 0))
	if s.State() != StateAwaitingPlacement || s.reg.Cue() != nil {
		t.Fatal("placement outside the D must be a no-op")
	}

	s.PointerDown(geom.CueSpot)
	cue := s.reg.Cue()
	if cue == nil {
		t.Fatal("placement inside the D should create the cue ball")
	}
	if s.State() != StateAiming {
		t.Errorf("state %s after placement, want %s", s.State(), StateAiming)
	}
	if phys.Position(cue.ID) != geom.CueSpot {
		t.Error("cue ball not mirrored into the physics engine")
	}
}

func TestReleaseBelowThresholdCancels(t *testing.T) {
	s, phys, geom := newTestSession()
	s.PointerDown(geom.CueSpot)

	aimAt := NewVec2(0, 0)
	s.PointerMove(aimAt)
	s.PointerDown(aimAt) // lock
	if s.State() != StatePowerSelect {
		t.Fatalf("lock gesture left state %s", s.State())
	}

	s.PointerMove(aimAt.Plus(NewVec2(0, MinFirePullBack/2)))
	s.PointerUp(aimAt.Plus(NewVec2(0, MinFirePullBack/2)))

	if s.State() != StateAiming {
		t.Errorf("short release should cancel to aiming, got %s", s.State())
	}
	if got := s.shot.Intent().PullBack; got != 0 {
		t.Errorf("pull-back not reset, got %v", got)
	}
	if !phys.Velocity(s.reg.Cue().ID).IsZero() {
		t.Error("cancelled release must not move the cue ball")
	}
}

func TestPullBackIsClamped(t *testing.T) {
	s, _, geom := newTestSession()
	s.PointerDown(geom.CueSpot)

	lock := NewVec2(0, 0)
	s.PointerMove(lock)
	s.PointerDown(lock)
	s.PointerMove(lock.Plus(NewVec2(0, 3*MaxPullBack)))

	if got := s.shot.Intent().PullBack; got != MaxPullBack {
		t.Errorf("pull-back %v, want clamp at %v", got, MaxPullBack)
	}
}

func TestBreakShot(t *testing.T) {
	s, phys, geom := newTestSession()
	s.PointerDown(geom.CueSpot)

	apex := apexRed(s)
	target := apex.Position

	// Aim up the table at the apex red, draw to full power, release.
	s.PointerMove(target)
	s.PointerDown(target)
	s.PointerMove(target.Plus(NewVec2(0, MaxPullBack)))
	s.PointerUp(target.Plus(NewVec2(0, MaxPullBack)))

	if s.State() != StateInFlight {
		t.Fatalf("state %s after firing, want %s", s.State(), StateInFlight)
	}
	cue := s.reg.Cue()
	if phys.Velocity(cue.ID).IsZero() {
		t.Fatal("cue ball has no speed immediately after the impulse")
	}

	// The impulse travels up the spots through blue and pink into the pack.
	moved := false
	for i := 0; i < 1000 && !moved; i++ {
		s.Step()
		if !apex.Velocity.IsZero() {
			moved = true
		}
	}
	if !moved {
		t.Error("apex red never moved after the break shot")
	}
}

func TestSettlingMonotonicity(t *testing.T) {
	s, _, geom := newTestSession()
	s.PointerDown(geom.CueSpot)

	aim := NewVec2(geom.DRadius, geom.BaulkY-geom.DRadius) // gentle angled shot
	s.PointerMove(aim)
	s.PointerDown(aim)
	s.PointerMove(aim.Plus(NewVec2(0, MaxPullBack/8)))
	s.PointerUp(aim.Plus(NewVec2(0, MaxPullBack/8)))
	if s.State() != StateInFlight {
		t.Fatal("shot did not fire")
	}

	sawSettled := false
	steps := 0
	for ; steps < 30000; steps++ {
		s.Step()
		if s.State() == StateSettled {
			sawSettled = true
		}
		if s.State() == StateAiming {
			break
		}
	}
	if !sawSettled {
		t.Error("session never passed through the settled state")
	}
	if s.State() != StateAiming {
		t.Fatalf("session stuck in %s after %d steps", s.State(), steps)
	}

	// Without a new shot the session must never re-enter flight.
	for i := 0; i < 200; i++ {
		s.Step()
		if s.State() == StateInFlight {
			t.Fatal("re-entered flight without a shot being fired")
		}
	}
}

func TestCaptureRespotsColour(t *testing.T) {
	geom := NewGeometry(DefaultDimensions())
	reg := NewRegistry(geom)
	reg.SetupRack()
	phys := newStubPhysics(geom)
	for _, b := range reg.AllBalls() {
		phys.AddBall(b.ID, b.Position)
	}

	blue := reg.find(CategoryBlue)
	blue.Position = geom.Pockets[0].Center
	blue.Velocity = NewVec2(800, -300)
	phys.SetPosition(blue.ID, blue.Position)

	before := reg.Count()
	events := DetectCaptures(geom, reg, phys)

	if len(events) != 1 || !events[0].Respotted || events[0].Category != CategoryBlue {
		t.Fatalf("unexpected capture events: %+v", events)
	}
	if reg.Count() != before {
		t.Error("colour capture changed the live-ball count")
	}
	if blue.Position != geom.Spots[CategoryBlue] || !blue.Velocity.IsZero() {
		t.Error("blue not back on its spot at rest")
	}
	if phys.Position(blue.ID) != geom.Spots[CategoryBlue] {
		t.Error("respot not mirrored into the physics engine")
	}
}

func TestCaptureRemovesRed(t *testing.T) {
	geom := NewGeometry(DefaultDimensions())
	reg := NewRegistry(geom)
	reg.SetupRack()
	phys := newStubPhysics(geom)
	for _, b := range reg.AllBalls() {
		phys.AddBall(b.ID, b.Position)
	}

	red := reg.AllBalls()[0]
	// Centre exactly on the pocket centre: captured regardless of speed.
	red.Position = geom.Pockets[5].Center
	red.Velocity = NewVec2(0, 4000)
	phys.SetPosition(red.ID, red.Position)

	before := reg.Count()
	events := DetectCaptures(geom, reg, phys)

	if len(events) != 1 || events[0].Respotted {
		t.Fatalf("unexpected capture events: %+v", events)
	}
	if reg.Count() != before-1 {
		t.Error("red capture should remove exactly one ball")
	}
	if _, ok := phys.pos[red.ID]; ok {
		t.Error("captured red still present in the physics engine")
	}
}

func TestCueCaptureForcesPlacement(t *testing.T) {
	s, phys, geom := newTestSession()
	s.PointerDown(geom.CueSpot)
	cueID := s.reg.Cue().ID

	aim := NewVec2(0, 0)
	s.PointerMove(aim)
	s.PointerDown(aim)
	s.PointerMove(aim.Plus(NewVec2(0, MinFirePullBack*2)))
	s.PointerUp(aim.Plus(NewVec2(0, MinFirePullBack*2)))
	if s.State() != StateInFlight {
		t.Fatal("shot did not fire")
	}

	// Drop the cue ball into a pocket mid-flight.
	phys.SetPosition(cueID, geom.Pockets[0].Center)
	phys.SetVelocity(cueID, Vec2{})

	for i := 0; i < 100 && s.State() != StateAwaitingPlacement; i++ {
		s.Step()
	}
	if s.State() != StateAwaitingPlacement {
		t.Errorf("scratch should end in %s, got %s", StateAwaitingPlacement, s.State())
	}
	if s.reg.Cue() != nil {
		t.Error("cue ball still on the table after a scratch")
	}
}

func TestCommandsAndForecastGating(t *testing.T) {
	s, _, geom := newTestSession()
	s.PointerDown(geom.CueSpot)
	s.Step()

	forecastOf := func() *Forecast {
		f, _ := s.Snapshot()["forecast"].(*Forecast)
		return f
	}

	if forecastOf() == nil {
		t.Fatal("aiming session should publish a forecast")
	}

	if !s.Command("mode_3") {
		t.Fatal("mode_3 rejected")
	}
	s.Step()
	if forecastOf() != nil {
		t.Error("no-assist mode must suppress the forecast")
	}

	s.Command("mode_1")
	s.Command("toggle_forecast")
	s.Step()
	if forecastOf() != nil {
		t.Error("toggled-off forecast still published")
	}
	s.Command("toggle_forecast")
	s.Step()
	if forecastOf() == nil {
		t.Error("forecast did not come back after toggling on")
	}

	if !s.Command("new_rack") {
		t.Error("re-rack should be allowed while aiming")
	}
	if s.State() != StateAwaitingPlacement {
		t.Error("re-rack should require a fresh cue ball placement")
	}

	if s.Command("bogus") {
		t.Error("unknown command accepted")
	}
}

func TestReplaceCueCommand(t *testing.T) {
	s, phys, geom := newTestSession()
	s.PointerDown(geom.CueSpot)
	cueID := s.reg.Cue().ID

	if !s.Command("replace_cue") {
		t.Fatal("replace_cue rejected while aiming")
	}
	if s.State() != StateAwaitingPlacement {
		t.Errorf("state %s after replace_cue, want %s", s.State(), StateAwaitingPlacement)
	}
	if s.reg.Cue() != nil {
		t.Error("cue ball still registered")
	}
	if _, ok := phys.pos[cueID]; ok {
		t.Error("cue ball still in the physics engine")
	}
}

func TestSideSpinSetsAngularVelocity(t *testing.T) {
	s, phys, geom := newTestSession()
	s.PointerDown(geom.CueSpot)
	cueID := s.reg.Cue().ID
	s.SetSpin(1, 0)

	aim := NewVec2(0, 0)
	s.PointerMove(aim)
	s.PointerDown(aim)
	s.PointerMove(aim.Plus(NewVec2(0, MaxPullBack)))
	s.PointerUp(aim.Plus(NewVec2(0, MaxPullBack)))

	// Full pull-back with full side spin.
	want := MaxImpulse * SideSpinAngular
	if got := phys.omega[cueID]; math.Abs(got-want) > 1e-9 {
		t.Errorf("angular velocity %v, want %v", got, want)
	}
}

func TestFireWithoutCueIsNoOp(t *testing.T) {
	phys := newStubPhysics(NewGeometry(DefaultDimensions()))
	e := NewShotEngine()
	e.state = StatePowerSelect
	e.intent.PullBack = MaxPullBack

	if e.Release(nil, phys) {
		t.Error("release with no cue ball must not fire")
	}
	if e.State() != StateAiming {
		t.Errorf("state %s, want fallback to %s", e.State(), StateAiming)
	}
}
