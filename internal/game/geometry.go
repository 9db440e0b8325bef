package game

// Dimensions is the base parameter set the whole table is derived from.
type Dimensions struct {
	TableLength      float64 `json:"table_length"`
	CushionThickness float64 `json:"cushion_thickness"`
	RailWidth        float64 `json:"rail_width"`
}

// DefaultDimensions returns full-size table parameters.
func DefaultDimensions() Dimensions {
	return Dimensions{
		TableLength:      DefaultTableLength,
		CushionThickness: DefaultTableLength * 0.014,
		RailWidth:        DefaultTableLength * 0.02,
	}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min Vec2 `json:"min"`
	Max Vec2 `json:"max"`
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Pocket is one of the six pockets.
type Pocket struct {
	ID     int  `json:"id"`
	Center Vec2 `json:"center"`
}

// Geometry holds every measurement derived from the base dimensions.
// All fields are computed once in NewGeometry and never mutated.
type Geometry struct {
	Dims Dimensions `json:"dims"`

	HalfWidth  float64 `json:"half_width"`
	HalfLength float64 `json:"half_length"`

	PocketRadius  float64 `json:"pocket_radius"`
	CaptureRadius float64 `json:"capture_radius"`
	// PocketMouth is the half-opening of the cushion gap at each pocket.
	// It is kept narrow enough that any ball centre fitting through the
	// mouth passes inside the capture zone: PocketMouth - BallRadius is at
	// most CaptureRadius.
	PocketMouth float64 `json:"pocket_mouth"`

	Cushions []Rect   `json:"cushions"` // 6 rects with gaps at the pockets
	Pockets  []Pocket `json:"pockets"`  // 4 corners + 2 middles

	BaulkY  float64 `json:"baulk_y"`
	DCenter Vec2    `json:"d_center"`
	DRadius float64 `json:"d_radius"`

	Spots   map[Category]Vec2 `json:"spots"` // six colours
	CueSpot Vec2              `json:"cue_spot"`

	// Inner is the playing boundary inset by one ball radius; the centre of
	// a ball can never leave it except through a pocket gap.
	Inner Rect `json:"inner"`
	// Outer is the table footprint including cushions and rails.
	Outer Rect `json:"outer"`
}

// NewGeometry derives the full table layout from the base dimensions.
// The table is oriented long axis along Y with the baulk end at negative Y;
// the playing area is half as wide as it is long and centred on the origin.
func NewGeometry(d Dimensions) *Geometry {
	l := d.TableLength
	halfW := l / 4
	halfL := l / 2

	pr := l * 0.0125
	gap := 1.2 * pr // cushion opening either side of a pocket mouth
	t := d.CushionThickness

	baulkY := -halfL + 0.2065*l
	dRadius := (l / 2) / 6

	g := &Geometry{
		Dims:          d,
		HalfWidth:     halfW,
		HalfLength:    halfL,
		PocketRadius:  pr,
		CaptureRadius: CaptureRadiusFraction * pr,
		PocketMouth:   fix(gap),
		BaulkY:        fix(baulkY),
		DCenter:       NewVec2(0, baulkY),
		DRadius:       fix(dRadius),
	}

	// Pockets sit just beyond the cushion line, corner mouths on the
	// diagonal and middle mouths straight out through the side rails.
	g.Pockets = []Pocket{
		{ID: 0, Center: NewVec2(-halfW-pr/2, -halfL-pr/2)},
		{ID: 1, Center: NewVec2(halfW+pr/2, -halfL-pr/2)},
		{ID: 2, Center: NewVec2(-halfW-pr, 0)},
		{ID: 3, Center: NewVec2(halfW+pr, 0)},
		{ID: 4, Center: NewVec2(-halfW-pr/2, halfL+pr/2)},
		{ID: 5, Center: NewVec2(halfW+pr/2, halfL+pr/2)},
	}

	// Six cushion rectangles: full-width end rails (minus the corner
	// openings) and the long rails split around the middle pockets.
	g.Cushions = []Rect{
		{Min: NewVec2(-halfW+gap, -halfL-t), Max: NewVec2(halfW-gap, -halfL)}, // baulk end
		{Min: NewVec2(-halfW+gap, halfL), Max: NewVec2(halfW-gap, halfL+t)},   // top end
		{Min: NewVec2(-halfW-t, -halfL+gap), Max: NewVec2(-halfW, -gap)},      // left lower
		{Min: NewVec2(-halfW-t, gap), Max: NewVec2(-halfW, halfL-gap)},        // left upper
		{Min: NewVec2(halfW, -halfL+gap), Max: NewVec2(halfW+t, -gap)},        // right lower
		{Min: NewVec2(halfW, gap), Max: NewVec2(halfW+t, halfL-gap)},          // right upper
	}

	g.Spots = map[Category]Vec2{
		CategoryYellow: NewVec2(dRadius, baulkY),
		CategoryGreen:  NewVec2(-dRadius, baulkY),
		CategoryBrown:  NewVec2(0, baulkY),
		CategoryBlue:   NewVec2(0, 0),
		CategoryPink:   NewVec2(0, halfL/2),
		CategoryBlack:  NewVec2(0, halfL-0.0908*l),
	}
	g.CueSpot = NewVec2(0, baulkY-dRadius/2)

	g.Inner = Rect{
		Min: NewVec2(-halfW+BallRadius, -halfL+BallRadius),
		Max: NewVec2(halfW-BallRadius, halfL-BallRadius),
	}
	g.Outer = Rect{
		Min: NewVec2(-halfW-t-d.RailWidth, -halfL-t-d.RailWidth),
		Max: NewVec2(halfW+t+d.RailWidth, halfL+t+d.RailWidth),
	}

	return g
}

// InDZone reports whether p lies inside the D: behind the baulk line and
// within the semicircle's radius of its centre.
func (g *Geometry) InDZone(p Vec2) bool {
	if p.Y > g.BaulkY {
		return false
	}
	return p.DistanceTo(g.DCenter) <= g.DRadius
}

// RackPositions returns the 15 red positions: a triangle with its apex just
// behind the pink spot, widening toward the top cushion.
func (g *Geometry) RackPositions() []Vec2 {
	apex := NewVec2(0, g.Spots[CategoryPink].Y+BallDiameter*1.05)
	spacing := BallDiameter * 1.02
	rowStep := spacing * 0.866

	positions := make([]Vec2, 0, NumReds)
	for row := 0; row < 5; row++ {
		rowY := apex.Y + float64(row)*rowStep
		startX := -float64(row) * spacing / 2
		for i := 0; i <= row; i++ {
			positions = append(positions, NewVec2(startX+float64(i)*spacing, rowY))
		}
	}
	return positions
}
