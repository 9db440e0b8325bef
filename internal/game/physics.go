package game

// Physics is the boundary to the external 2D rigid-body engine. The core
// drives the actual shot through it and mirrors positions back into the
// registry after every step; it never reaches into the engine's internals.
type Physics interface {
	AddBall(id BallID, pos Vec2)
	RemoveBall(id BallID)
	SetPosition(id BallID, pos Vec2)
	SetVelocity(id BallID, vel Vec2)

	ApplyImpulse(id BallID, impulse Vec2)
	SetAngularVelocity(id BallID, omega float64)
	// SetFrictionCoefficient sets the per-ball rolling resistance as a
	// multiple of the baseline (1.0); top spin lowers it, back spin raises it.
	SetFrictionCoefficient(id BallID, coeff float64)

	Step()
	Position(id BallID) Vec2
	Velocity(id BallID) Vec2
}
