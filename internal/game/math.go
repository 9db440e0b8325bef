package game

import "math"

// segmentCircleHit holds the result of a segment/circle intersection test.
type segmentCircleHit struct {
	intersects bool
	inside     bool // segment start lies within the circle
	enter      *Vec2
	enterT     float64
}

// segmentIntersectCircle solves the quadratic for the parametric t at which
// the segment a→b crosses a circle. Only the entry point (the smaller valid
// root in [0,1]) is kept; a negative discriminant or roots outside the
// segment mean no hit.
func segmentIntersectCircle(a, b, center Vec2, radius float64) segmentCircleHit {
	var out segmentCircleHit

	dx := b.X - a.X
	dy := b.Y - a.Y
	fx := a.X - center.X
	fy := a.Y - center.Y

	qa := fix(dx*dx + dy*dy)
	qb := fix(2 * (dx*fx + dy*fy))
	qc := fix(fx*fx + fy*fy - radius*radius)

	if qa == 0 {
		out.inside = qc < 0
		return out
	}

	discriminant := fix(qb*qb - 4*qa*qc)
	if discriminant <= 0 {
		out.inside = qc < 0
		return out
	}

	sqrtDisc := fix(math.Sqrt(discriminant))
	tEnter := fix((-qb - sqrtDisc) / (2 * qa))
	tExit := fix((-qb + sqrtDisc) / (2 * qa))

	if tEnter >= 0 && tEnter <= 1 {
		p := interpolate(a, b, tEnter)
		out.intersects = true
		out.enter = &p
		out.enterT = tEnter
		return out
	}

	// Segment starts inside the circle when the roots straddle zero.
	if tEnter < 0 && tExit > 0 {
		out.inside = true
	}
	return out
}

// interpolate returns the point a fraction t of the way from a to b.
func interpolate(a, b Vec2, t float64) Vec2 {
	return NewVec2((1-t)*a.X+t*b.X, (1-t)*a.Y+t*b.Y)
}

// clampFloat bounds v to [lo, hi].
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
