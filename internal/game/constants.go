package game

// Simulation and shot constants for the snooker table.
// Distances are in millimetres of playing area; a full-size table is
// 3569mm along the long axis.

const (
	DefaultTableLength = 3569.0
	BallRadius         = 26.25
	BallDiameter       = 2 * BallRadius

	NumReds    = 15
	NumColours = 6

	// Shot engine
	MaxPullBack         = 450.0  // mm of cue draw
	MinFirePullBack     = 20.0   // below this a release cancels the shot
	PullBackSensitivity = 1.0
	MaxImpulse          = 5200.0 // impulse magnitude at full pull-back
	PowerCurveExponent  = 1.35   // shaped response: gentle at low draw
	SideSpinKick        = 0.06   // radians of force rotation at full side spin
	SideSpinAngular     = 0.002  // angular velocity per unit impulse at full side spin
	SpinFrictionSwing   = 0.55   // how far top/back spin moves rolling resistance

	// Capture
	CaptureRadiusFraction = 0.75 // of pocket radius

	// Settling
	StopSpeed = 1.2 // mm/s below which a ball counts as stationary

	// Trajectory prediction
	PredictStep        = BallDiameter * 0.015
	MaxPredictDistance = 2.5 * DefaultTableLength
	MaxPredictBounces  = 3
	SwerveStrength     = 0.00055 // radians of curve per step at full side spin
	SwerveDecay        = 0.9995  // geometric decay of swerve per step
	DeflectionRayLen   = 8 * BallDiameter
	CueDeflectionSpin  = 0.6 // radians of deflection correction at full top/back spin

	// Physics stepping
	StepSeconds = 1.0 / 120.0
)
