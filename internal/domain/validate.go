package domain

import (
	"fmt"
	"math"
)

// DimensionTolerance is the allowed mismatch, in square feet, between a
// manually entered length x width and the reported floor area.
const DimensionTolerance = 1.0

// ValidateGeometry checks caller-supplied gross geometry against domain
// constraints. Length and width are optional manual entries; pass zero when
// dimensions were not entered by hand. The result is a list of
// human-readable messages, empty when the geometry is valid.
func ValidateGeometry(g GrossGeometry, length, width float64) []string {
	var problems []string

	if g.FloorArea <= 0 {
		problems = append(problems, fmt.Sprintf("floor area must be positive, got %.1f SF", g.FloorArea))
	}
	if g.CeilingHeight > 0 && g.CeilingHeight < MinCeilingHeight {
		problems = append(problems, fmt.Sprintf("ceiling height %.1f ft is below the %.1f ft minimum", g.CeilingHeight, MinCeilingHeight))
	}
	if g.WallArea < 0 {
		problems = append(problems, fmt.Sprintf("wall area cannot be negative, got %.1f SF", g.WallArea))
	}
	if g.FloorPerimeter < 0 {
		problems = append(problems, fmt.Sprintf("floor perimeter cannot be negative, got %.1f LF", g.FloorPerimeter))
	}
	if length > 0 && width > 0 && g.FloorArea > 0 {
		computed := length * width
		if math.Abs(computed-g.FloorArea) > DimensionTolerance {
			problems = append(problems, fmt.Sprintf(
				"entered dimensions %.1f x %.1f ft give %.1f SF but floor area is %.1f SF", length, width, computed, g.FloorArea))
		}
	}

	return problems
}
