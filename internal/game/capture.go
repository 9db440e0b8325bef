package game

// CaptureEvent records one ball falling into a pocket during a step.
type CaptureEvent struct {
	BallID    BallID   `json:"ball_id"`
	Category  Category `json:"category"`
	PocketID  int      `json:"pocket_id"`
	Respotted bool     `json:"respotted"`
}

// DetectCaptures tests every live ball against every pocket centre. A ball
// whose centre is within the capture radius is potted: reds and the cue ball
// leave the table, coloured balls go back to their spot with zero velocity.
// Pocket spacing exceeds the capture diameter, so a ball can never be inside
// two capture zones at once.
func DetectCaptures(geom *Geometry, reg *Registry, phys Physics) []CaptureEvent {
	var events []CaptureEvent

	// Capture mutates the live set, so walk a snapshot of it.
	for _, b := range reg.Snapshot() {
		for _, p := range geom.Pockets {
			if b.Position.DistanceTo(p.Center) > geom.CaptureRadius {
				continue
			}

			ev := CaptureEvent{BallID: b.ID, Category: b.Category, PocketID: p.ID}
			if b.Category.IsColour() {
				if spotted := reg.Respot(b.Category); spotted != nil {
					phys.SetPosition(b.ID, spotted.Position)
					phys.SetVelocity(b.ID, Vec2{})
					ev.Respotted = true
				}
			} else {
				reg.Remove(b.ID)
				phys.RemoveBall(b.ID)
			}
			events = append(events, ev)
			break
		}
	}
	return events
}
