package game

// PathPoint is one sampled point of the predicted cue-ball path, tagged
// with how many cushion bounces preceded it.
type PathPoint struct {
	Point  Vec2 `json:"point"`
	Bounce int  `json:"bounce"`
}

// GhostContact is the predicted first ball-on-ball contact: the cue ball's
// centre at the moment of impact and which ball it strikes.
type GhostContact struct {
	Point  Vec2   `json:"point"`
	Target BallID `json:"target"`
}

// DeflectionRay is a finite display ray showing where a ball goes after the
// predicted contact.
type DeflectionRay struct {
	Origin    Vec2     `json:"origin"`
	Direction Vec2     `json:"direction"`
	Length    float64  `json:"length"`
	Category  Category `json:"category"`
}

// Forecast is the full prediction for the current aim: the bounced path,
// the first contact if any, and the post-contact deflection rays.
type Forecast struct {
	Path        []PathPoint     `json:"path"`
	Bounces     int             `json:"bounces"`
	Contact     *GhostContact   `json:"contact,omitempty"`
	Deflections []DeflectionRay `json:"deflections,omitempty"`
}

// pathSampleEvery thins the marched points for the wire; bounce and contact
// points are always kept.
const pathSampleEvery = 16

// directionEpsilon guards renormalisation against a degenerate direction.
const directionEpsilon = 1e-9

// PredictTrajectory ray-marches the cue ball's path for the given aim and
// spin over a read-only snapshot of the live balls. It reflects off the four
// interior cushion boundaries up to the bounce limit, curves the path under
// side spin, and stops at the first predicted ball contact. The real ball
// state is never touched; calling it twice with the same inputs yields the
// same forecast.
func PredictTrajectory(geom *Geometry, balls []Ball, aimAngle float64, spin SpinVector) *Forecast {
	f := &Forecast{}

	var cue *Ball
	others := make([]Ball, 0, len(balls))
	for i := range balls {
		if balls[i].Category == CategoryCue {
			cue = &balls[i]
		} else {
			others = append(others, balls[i])
		}
	}
	if cue == nil {
		return f
	}

	pos := cue.Position
	dir := UnitFromAngle(aimAngle)
	curve := SwerveStrength * spin.Side
	decay := 1.0
	traveled := 0.0
	step := 0

	f.Path = append(f.Path, PathPoint{Point: pos, Bounce: 0})

	for traveled < MaxPredictDistance {
		// Swerve: a small rotation per step, decaying with distance.
		if curve != 0 {
			dir = dir.Rotate(curve * decay)
			decay *= SwerveDecay
			if m := dir.Magnitude(); m > directionEpsilon {
				dir = dir.Times(1 / m)
			}
			// A degenerate direction keeps its previous value this step.
		}

		next := pos.Plus(dir.Times(PredictStep))

		// Ball contact is only predicted before the first cushion bounce.
		if f.Bounces == 0 {
			if contact, ok := firstContactOn(pos, next, others); ok {
				f.Path = append(f.Path, PathPoint{Point: contact.Point, Bounce: f.Bounces})
				f.Contact = &contact
				f.Deflections = deflectionRays(contact, dir, spin, others)
				return f
			}
		}

		// Clamp against the interior boundary (inset by a ball radius) and
		// mirror-reflect the crossed component.
		crossings := 0
		if next.X < geom.Inner.Min.X {
			next.X = geom.Inner.Min.X
			dir.X = -dir.X
			crossings++
		} else if next.X > geom.Inner.Max.X {
			next.X = geom.Inner.Max.X
			dir.X = -dir.X
			crossings++
		}
		if next.Y < geom.Inner.Min.Y {
			next.Y = geom.Inner.Min.Y
			dir.Y = -dir.Y
			crossings++
		} else if next.Y > geom.Inner.Max.Y {
			next.Y = geom.Inner.Max.Y
			dir.Y = -dir.Y
			crossings++
		}
		bounced := crossings > 0
		if bounced {
			// A corner clip is two crossings and counts twice.
			if f.Bounces+crossings > MaxPredictBounces {
				f.Path = append(f.Path, PathPoint{Point: next, Bounce: f.Bounces})
				return f
			}
			f.Bounces += crossings
			f.Path = append(f.Path, PathPoint{Point: next, Bounce: f.Bounces})
		}

		traveled += PredictStep
		pos = next
		step++
		if !bounced && step%pathSampleEvery == 0 {
			f.Path = append(f.Path, PathPoint{Point: pos, Bounce: f.Bounces})
		}
	}

	f.Path = append(f.Path, PathPoint{Point: pos, Bounce: f.Bounces})
	return f
}

// firstContactOn tests the marched segment against every other ball's circle
// (combined radius: one ball diameter) and returns the contact nearest the
// segment start.
func firstContactOn(from, to Vec2, others []Ball) (GhostContact, bool) {
	best := GhostContact{}
	bestT := 2.0
	found := false

	for i := range others {
		hit := segmentIntersectCircle(from, to, others[i].Position, BallDiameter)
		switch {
		case hit.intersects && hit.enterT < bestT:
			bestT = hit.enterT
			best = GhostContact{Point: *hit.enter, Target: others[i].ID}
			found = true
		case hit.inside && bestT > 0:
			// Already overlapping: contact where we stand.
			bestT = 0
			best = GhostContact{Point: from, Target: others[i].ID}
			found = true
		}
	}
	return best, found
}

// deflectionRays builds the two post-contact display rays. The struck ball
// leaves along the line of centres; the cue ball leaves perpendicular to it,
// with top spin bending it back toward the target line and back spin bending
// it further away.
func deflectionRays(contact GhostContact, incoming Vec2, spin SpinVector, others []Ball) []DeflectionRay {
	var target *Ball
	for i := range others {
		if others[i].ID == contact.Target {
			target = &others[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	centreLine := target.Position.Minus(contact.Point)
	if centreLine.Magnitude() < directionEpsilon {
		return nil
	}
	targetDir := centreLine.Normalize()

	perp := targetDir.LeftNormal()
	if perp.Dot(incoming) < 0 {
		perp = perp.Invert()
	}

	// Rotate the cue ray toward the target line for follow, away for screw.
	towardTarget := 1.0
	if perp.X*targetDir.Y-perp.Y*targetDir.X < 0 {
		towardTarget = -1.0
	}
	cueDir := perp.Rotate(towardTarget * CueDeflectionSpin * spin.Vertical)

	return []DeflectionRay{
		{Origin: target.Position, Direction: targetDir, Length: DeflectionRayLen, Category: target.Category},
		{Origin: contact.Point, Direction: cueDir, Length: DeflectionRayLen, Category: CategoryCue},
	}
}
