package game

// BallID uniquely identifies a live ball for the registry and the physics
// engine. IDs are never reused within a session.
type BallID int

// Ball is one live ball on the table.
type Ball struct {
	ID       BallID   `json:"id"`
	Category Category `json:"category"`
	Position Vec2     `json:"position"`
	Velocity Vec2     `json:"velocity"`
	Radius   float64  `json:"radius"`
}

// Registry owns the set of live balls. It is purely positional state; the
// session mirrors every change into the physics engine.
type Registry struct {
	geom   *Geometry
	nextID BallID
	balls  []*Ball
}

func NewRegistry(geom *Geometry) *Registry {
	return &Registry{geom: geom, nextID: 1}
}

// SetupRack places the 15 reds in their triangle and the six colours on
// their spots. The cue ball is not placed; that is the player's first move.
func (r *Registry) SetupRack() {
	r.balls = r.balls[:0]
	for _, pos := range r.geom.RackPositions() {
		r.add(CategoryRed, pos)
	}
	for _, c := range Colours {
		r.add(c, r.geom.Spots[c])
	}
}

func (r *Registry) add(cat Category, pos Vec2) *Ball {
	b := &Ball{
		ID:       r.nextID,
		Category: cat,
		Position: pos,
		Radius:   BallRadius,
	}
	r.nextID++
	r.balls = append(r.balls, b)
	return b
}

// Place adds a ball of the given category. Cue placement is validated
// against the D and against overlap with existing balls; an invalid request
// returns (nil, false) and changes nothing. A duplicate cue or duplicate
// colour is likewise rejected.
func (r *Registry) Place(cat Category, pos Vec2) (*Ball, bool) {
	switch cat {
	case CategoryCue:
		if r.Cue() != nil || !r.CanPlaceCue(pos) {
			return nil, false
		}
	case CategoryRed:
		// reds are only created at rack setup
	default:
		if r.find(cat) != nil {
			return nil, false
		}
	}
	return r.add(cat, pos), true
}

// CanPlaceCue reports whether pos is a legal cue-ball placement: inside the
// D and at least one ball diameter from every existing ball centre.
func (r *Registry) CanPlaceCue(pos Vec2) bool {
	if !r.geom.InDZone(pos) {
		return false
	}
	for _, b := range r.balls {
		if pos.DistanceTo(b.Position) < BallDiameter {
			return false
		}
	}
	return true
}

// Remove deletes a ball from the live set.
func (r *Registry) Remove(id BallID) bool {
	for i, b := range r.balls {
		if b.ID == id {
			r.balls = append(r.balls[:i], r.balls[i+1:]...)
			return true
		}
	}
	return false
}

// Respot moves the coloured ball of the given category back onto its spot
// with zero velocity. Reds and the cue ball have no spot and are ignored.
func (r *Registry) Respot(cat Category) *Ball {
	if !cat.IsColour() {
		return nil
	}
	b := r.find(cat)
	if b == nil {
		return nil
	}
	b.Position = r.geom.Spots[cat]
	b.Velocity = Vec2{}
	return b
}

// AllBalls returns the live balls in creation order.
func (r *Registry) AllBalls() []*Ball {
	return r.balls
}

// BallsExcept returns every live ball not of the given category.
func (r *Registry) BallsExcept(cat Category) []*Ball {
	out := make([]*Ball, 0, len(r.balls))
	for _, b := range r.balls {
		if b.Category != cat {
			out = append(out, b)
		}
	}
	return out
}

// Cue returns the cue ball, or nil if it is off the table.
func (r *Registry) Cue() *Ball {
	return r.find(CategoryCue)
}

func (r *Registry) ByID(id BallID) *Ball {
	for _, b := range r.balls {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (r *Registry) find(cat Category) *Ball {
	for _, b := range r.balls {
		if b.Category == cat {
			return b
		}
	}
	return nil
}

// RedCount returns how many reds remain on the table.
func (r *Registry) RedCount() int {
	n := 0
	for _, b := range r.balls {
		if b.Category == CategoryRed {
			n++
		}
	}
	return n
}

// Count returns the number of live balls.
func (r *Registry) Count() int {
	return len(r.balls)
}

// Snapshot returns value copies of every live ball. The trajectory
// predictor works off a snapshot so it can never mutate real state.
func (r *Registry) Snapshot() []Ball {
	out := make([]Ball, len(r.balls))
	for i, b := range r.balls {
		out[i] = *b
	}
	return out
}
