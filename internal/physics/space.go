// Package physics implements the core's Physics boundary on top of the
// Chipmunk 2D rigid-body engine (github.com/jakecoffman/cp). The engine does
// broad-phase collision, integration and restitution; the core supplies
// impulses and reads positions back.
package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/playsnooker/backend/internal/game"
)

const (
	// Unit mass keeps impulse and velocity in the same scale (mm/s).
	ballMass = 1.0

	ballElasticity    = 0.94
	ballFriction      = 0.25
	cushionElasticity = 0.72
	cushionFriction   = 0.35

	// Baseline cloth deceleration, mm/s^2. Scaled per ball by the
	// friction coefficient the shot engine sets for top/back spin.
	rollingResistance = 320.0

	// Below this speed the stop clamp zeroes a ball out.
	clampSpeed = 12.0
)

type ballBody struct {
	body  *cp.Body
	shape *cp.Shape
	coeff float64 // rolling resistance multiplier
}

// Space is a Chipmunk space holding one table's cushions and balls.
type Space struct {
	space *cp.Space
	balls map[game.BallID]*ballBody
}

var _ game.Physics = (*Space)(nil)

// NewSpace builds the static cushion bodies from the derived geometry.
// Cushion rectangles carry gaps at the pockets, so balls leave the playing
// area only through a pocket mouth; each mouth is backed by a walled pit so
// a ball that crosses the boundary either gets captured or rebounds onto
// the table. Nothing can leave the table footprint.
func NewSpace(geom *game.Geometry) *Space {
	space := cp.NewSpace()
	space.Iterations = 20

	s := &Space{
		space: space,
		balls: make(map[game.BallID]*ballBody),
	}

	for _, r := range geom.Cushions {
		s.addBox(r)
	}
	for _, p := range geom.Pockets {
		s.addPocketPit(geom, p)
	}
	return s
}

// addBox outlines a cushion rectangle with four static segments.
func (s *Space) addBox(r game.Rect) {
	corners := []game.Vec2{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
	for i := range corners {
		s.addWall(corners[i], corners[(i+1)%len(corners)])
	}
}

// addPocketPit builds three static segments behind a pocket mouth: a back
// wall beyond the pocket centre and two sides running back to the cushion
// line. Entirely outside the playing area.
func (s *Space) addPocketPit(geom *game.Geometry, p game.Pocket) {
	dir := game.Vec2{}
	if p.Center.X > geom.HalfWidth {
		dir.X = 1
	} else if p.Center.X < -geom.HalfWidth {
		dir.X = -1
	}
	if p.Center.Y > geom.HalfLength {
		dir.Y = 1
	} else if p.Center.Y < -geom.HalfLength {
		dir.Y = -1
	}
	dir = dir.Normalize()
	perp := dir.LeftNormal()

	back := p.Center.Plus(dir.Times(geom.PocketRadius))
	half := geom.PocketMouth + geom.PocketRadius
	depth := 2 * geom.PocketRadius

	a := back.Plus(perp.Times(half))
	b := back.Minus(perp.Times(half))
	s.addWall(a, b)
	s.addWall(a, a.Minus(dir.Times(depth)))
	s.addWall(b, b.Minus(dir.Times(depth)))
}

func (s *Space) addWall(a, b game.Vec2) {
	seg := s.space.AddShape(cp.NewSegment(s.space.StaticBody,
		cp.Vector{X: a.X, Y: a.Y}, cp.Vector{X: b.X, Y: b.Y}, 1))
	seg.SetElasticity(cushionElasticity)
	seg.SetFriction(cushionFriction)
}

func (s *Space) AddBall(id game.BallID, pos game.Vec2) {
	if _, exists := s.balls[id]; exists {
		return
	}
	moment := cp.MomentForCircle(ballMass, 0, game.BallRadius, cp.Vector{})
	body := s.space.AddBody(cp.NewBody(ballMass, moment))
	body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})

	shape := s.space.AddShape(cp.NewCircle(body, game.BallRadius, cp.Vector{}))
	shape.SetElasticity(ballElasticity)
	shape.SetFriction(ballFriction)

	s.balls[id] = &ballBody{body: body, shape: shape, coeff: 1}
}

func (s *Space) RemoveBall(id game.BallID) {
	bb, ok := s.balls[id]
	if !ok {
		return
	}
	s.space.RemoveShape(bb.shape)
	s.space.RemoveBody(bb.body)
	delete(s.balls, id)
}

func (s *Space) SetPosition(id game.BallID, pos game.Vec2) {
	if bb, ok := s.balls[id]; ok {
		bb.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
	}
}

func (s *Space) SetVelocity(id game.BallID, vel game.Vec2) {
	if bb, ok := s.balls[id]; ok {
		bb.body.SetVelocityVector(cp.Vector{X: vel.X, Y: vel.Y})
		if vel.IsZero() {
			bb.body.SetAngularVelocity(0)
		}
	}
}

func (s *Space) ApplyImpulse(id game.BallID, impulse game.Vec2) {
	if bb, ok := s.balls[id]; ok {
		bb.body.ApplyImpulseAtWorldPoint(cp.Vector{X: impulse.X, Y: impulse.Y}, bb.body.Position())
	}
}

func (s *Space) SetAngularVelocity(id game.BallID, omega float64) {
	if bb, ok := s.balls[id]; ok {
		bb.body.SetAngularVelocity(omega)
	}
}

func (s *Space) SetFrictionCoefficient(id game.BallID, coeff float64) {
	if bb, ok := s.balls[id]; ok {
		bb.coeff = coeff
	}
}

// Step advances the engine one fixed step, then applies cloth rolling
// resistance and the stop clamp to every ball.
func (s *Space) Step() {
	s.space.Step(game.StepSeconds)

	for _, bb := range s.balls {
		v := bb.body.Velocity()
		speed := v.Length()
		if speed == 0 {
			continue
		}

		speed -= rollingResistance * bb.coeff * game.StepSeconds
		if speed < clampSpeed {
			bb.body.SetVelocityVector(cp.Vector{})
			bb.body.SetAngularVelocity(0)
			bb.coeff = 1
			continue
		}
		scaled := v.Mult(speed / v.Length())
		bb.body.SetVelocityVector(scaled)
	}
}

func (s *Space) Position(id game.BallID) game.Vec2 {
	if bb, ok := s.balls[id]; ok {
		p := bb.body.Position()
		return game.NewVec2(p.X, p.Y)
	}
	return game.Vec2{}
}

func (s *Space) Velocity(id game.BallID) game.Vec2 {
	if bb, ok := s.balls[id]; ok {
		v := bb.body.Velocity()
		return game.NewVec2(v.X, v.Y)
	}
	return game.Vec2{}
}
