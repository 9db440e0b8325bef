package game

import "fmt"

// Category identifies what kind of ball occupies a registry slot.
type Category string

const (
	CategoryCue    Category = "cue"
	CategoryRed    Category = "red"
	CategoryYellow Category = "yellow"
	CategoryGreen  Category = "green"
	CategoryBrown  Category = "brown"
	CategoryBlue   Category = "blue"
	CategoryPink   Category = "pink"
	CategoryBlack  Category = "black"
)

// Colours lists the six coloured categories in spotting order.
var Colours = []Category{
	CategoryYellow, CategoryGreen, CategoryBrown,
	CategoryBlue, CategoryPink, CategoryBlack,
}

// IsColour reports whether c is one of the six coloured balls (not cue, not red).
func (c Category) IsColour() bool {
	switch c {
	case CategoryYellow, CategoryGreen, CategoryBrown, CategoryBlue, CategoryPink, CategoryBlack:
		return true
	case CategoryCue, CategoryRed:
		return false
	}
	return false
}

// Valid reports whether c is one of the eight known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCue, CategoryRed, CategoryYellow, CategoryGreen,
		CategoryBrown, CategoryBlue, CategoryPink, CategoryBlack:
		return true
	}
	return false
}

// ParseCategory converts a wire string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown ball category %q", s)
	}
	return c, nil
}
