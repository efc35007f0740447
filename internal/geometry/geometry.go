// Package geometry derives net measurements from gross geometry and a
// reconciled opening inventory. Every function is pure and idempotent: the
// same inputs always produce the same outputs, and nothing is stored.
package geometry

import (
	"math"

	"github.com/roomworks/takeoff/internal/domain"
)

// FullHeightTolerance is how close, in feet, an opening's height must be to
// the room height to count as full-height for ceiling perimeter deductions.
const FullHeightTolerance = 0.5

// Net holds derived-only measurements. Net values are recomputed from their
// inputs, never stored independently of them.
type Net struct {
	FloorArea        float64 `json:"floor_area,omitempty"`
	WallArea         float64 `json:"wall_area,omitempty"`
	CeilingArea      float64 `json:"ceiling_area,omitempty"`
	FloorPerimeter   float64 `json:"floor_perimeter,omitempty"`
	CeilingPerimeter float64 `json:"ceiling_perimeter,omitempty"`
}

// Derive computes all net measurements for a record.
func Derive(gross domain.GrossGeometry, inv domain.OpeningInventory) Net {
	return Net{
		FloorArea:        gross.FloorArea,
		WallArea:         NetWallArea(gross, inv),
		CeilingArea:      NetCeilingArea(gross, inv),
		FloorPerimeter:   NetFloorPerimeter(gross, inv),
		CeilingPerimeter: NetCeilingPerimeter(gross, inv),
	}
}

// NetWallArea is the gross wall area minus the area of every opening that
// penetrates a wall, clamped at zero.
func NetWallArea(gross domain.GrossGeometry, inv domain.OpeningInventory) float64 {
	var deduction float64
	for _, o := range inv.Openings {
		if o.Kind.PenetratesWall() {
			deduction += o.EffectiveArea()
		}
	}
	return clamp(gross.WallArea - deduction)
}

// NetFloorPerimeter is the gross floor perimeter minus the widths of
// floor-reaching openings (doors, open areas, archways), clamped at zero.
func NetFloorPerimeter(gross domain.GrossGeometry, inv domain.OpeningInventory) float64 {
	var deduction float64
	for _, o := range inv.Openings {
		if o.Kind.ReachesFloor() {
			deduction += o.Width
		}
	}
	return clamp(gross.FloorPerimeter - deduction)
}

// NetCeilingPerimeter is the gross ceiling perimeter minus the widths of
// full-height open areas and archways, clamped at zero. Only openings
// reaching the ceiling interrupt crown trim.
func NetCeilingPerimeter(gross domain.GrossGeometry, inv domain.OpeningInventory) float64 {
	var deduction float64
	for _, o := range inv.Openings {
		if o.Kind != domain.KindOpenArea && o.Kind != domain.KindArchway {
			continue
		}
		if gross.CeilingHeight > 0 && math.Abs(o.Height-gross.CeilingHeight) <= FullHeightTolerance {
			deduction += o.Width
		}
	}
	return clamp(gross.CeilingPerimeter - deduction)
}

// NetCeilingArea is the gross ceiling area minus skylight areas, clamped at
// zero.
func NetCeilingArea(gross domain.GrossGeometry, inv domain.OpeningInventory) float64 {
	var deduction float64
	for _, o := range inv.Openings {
		if o.Kind == domain.KindSkylight {
			deduction += o.EffectiveArea()
		}
	}
	return clamp(gross.CeilingArea - deduction)
}

func clamp(v float64) float64 {
	return math.Max(0, v)
}
