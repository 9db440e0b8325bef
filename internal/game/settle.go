package game

// AllSettled reports whether every live ball's speed has dropped below the
// stopping threshold. The threshold is low enough that a visually stationary
// ball never counts as moving, and high enough that integrator jitter cannot
// hold a shot open forever.
func AllSettled(reg *Registry) bool {
	for _, b := range reg.AllBalls() {
		if b.Velocity.Magnitude() >= StopSpeed {
			return false
		}
	}
	return true
}
