package game

import "testing"

func newRackedRegistry() (*Geometry, *Registry) {
	g := NewGeometry(DefaultDimensions())
	r := NewRegistry(g)
	r.SetupRack()
	return g, r
}

func TestSetupRackCounts(t *testing.T) {
	_, r := newRackedRegistry()

	if r.RedCount() != NumReds {
		t.Errorf("expected %d reds, got %d", NumReds, r.RedCount())
	}
	if r.Count() != NumReds+NumColours {
		t.Errorf("expected %d balls, got %d", NumReds+NumColours, r.Count())
	}
	if r.Cue() != nil {
		t.Error("rack setup must not place a cue ball")
	}
}

func TestPlaceCueInsideD(t *testing.T) {
	g, r := newRackedRegistry()

	b, ok := r.Place(CategoryCue, g.CueSpot)
	if !ok || b == nil {
		t.Fatal("placing the cue ball on the cue spot should succeed")
	}
	if b.Category != CategoryCue {
		t.Errorf("placed ball has category %s", b.Category)
	}
	if cue := r.Cue(); cue == nil || cue.Position != g.CueSpot {
		t.Error("cue ball not registered at requested position")
	}
}

func TestPlaceCueOutsideDRejected(t *testing.T) {
	g, r := newRackedRegistry()

	// Ahead of the baulk line
	if _, ok := r.Place(CategoryCue, NewVec2(0, g.BaulkY+10)); ok {
		t.Error("placement ahead of the baulk line should be rejected")
	}
	if r.Cue() != nil {
		t.Error("rejected placement must not leave a cue ball behind")
	}
}

func TestPlaceCueOverlapRejected(t *testing.T) {
	g, r := newRackedRegistry()

	// The brown spot sits on the baulk line at the D centre; just behind it
	// is inside the D but within a diameter of the brown ball.
	nearBrown := NewVec2(0, g.BaulkY-BallDiameter/2)
	if _, ok := r.Place(CategoryCue, nearBrown); ok {
		t.Error("placement within one diameter of the brown should be rejected")
	}

	// The same point with the brown gone is legal.
	brown := r.find(CategoryBrown)
	r.Remove(brown.ID)
	if _, ok := r.Place(CategoryCue, nearBrown); !ok {
		t.Error("placement should succeed once the overlap is gone")
	}
}

func TestSecondCueRejected(t *testing.T) {
	g, r := newRackedRegistry()

	if _, ok := r.Place(CategoryCue, g.CueSpot); !ok {
		t.Fatal("first cue placement failed")
	}
	other := NewVec2(-g.DRadius/2, g.BaulkY-g.DRadius/3)
	if _, ok := r.Place(CategoryCue, other); ok {
		t.Error("a second cue ball must be rejected")
	}
}

func TestRespotColour(t *testing.T) {
	g, r := newRackedRegistry()

	blue := r.find(CategoryBlue)
	blue.Position = NewVec2(300, 300)
	blue.Velocity = NewVec2(10, -4)

	before := r.Count()
	spotted := r.Respot(CategoryBlue)
	if spotted == nil {
		t.Fatal("respot returned nil for a live colour")
	}
	if spotted.Position != g.Spots[CategoryBlue] {
		t.Errorf("blue respotted at %v, want %v", spotted.Position, g.Spots[CategoryBlue])
	}
	if !spotted.Velocity.IsZero() {
		t.Error("respotted ball must be stationary")
	}
	if r.Count() != before {
		t.Error("respot must not change the live-ball count")
	}
}

func TestRespotIgnoresRedsAndCue(t *testing.T) {
	_, r := newRackedRegistry()

	if r.Respot(CategoryRed) != nil {
		t.Error("reds have no spot")
	}
	if r.Respot(CategoryCue) != nil {
		t.Error("the cue ball has no spot")
	}
}

func TestRemoveDecrementsCount(t *testing.T) {
	_, r := newRackedRegistry()

	red := r.AllBalls()[0]
	before := r.Count()
	if !r.Remove(red.ID) {
		t.Fatal("remove failed for a live ball")
	}
	if r.Count() != before-1 {
		t.Error("count did not decrease by one")
	}
	if r.ByID(red.ID) != nil {
		t.Error("removed ball still resolvable by id")
	}
	if r.Remove(red.ID) {
		t.Error("removing twice should fail")
	}
}

func TestBallsExcept(t *testing.T) {
	_, r := newRackedRegistry()

	nonReds := r.BallsExcept(CategoryRed)
	if len(nonReds) != NumColours {
		t.Errorf("expected %d non-reds, got %d", NumColours, len(nonReds))
	}
	for _, b := range nonReds {
		if b.Category == CategoryRed {
			t.Error("BallsExcept returned an excluded category")
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	_, r := newRackedRegistry()

	snap := r.Snapshot()
	snap[0].Position = NewVec2(9999, 9999)
	if r.AllBalls()[0].Position == snap[0].Position {
		t.Error("mutating a snapshot must not touch the live ball")
	}
}
