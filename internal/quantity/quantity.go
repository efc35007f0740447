// Package quantity computes installable material quantities from net
// geometry, a work scope, and per-category waste factors.
package quantity

import (
	"github.com/roomworks/takeoff/internal/domain"
	"github.com/roomworks/takeoff/internal/geometry"
)

// Factors holds the multiplicative waste factors per material category.
// 0.10 means 10% overage. Paint carries no waste factor: coverage loss is
// already baked into spread rates, so paint quantities equal net area
// exactly.
type Factors struct {
	Flooring   map[domain.FlooringMaterial]float64 `yaml:"flooring"`
	Drywall    float64                             `yaml:"drywall"`
	Retape     float64                             `yaml:"retape"`
	Baseboard  float64                             `yaml:"baseboard"`
	Insulation float64                             `yaml:"insulation"`
	Paint      float64                             `yaml:"paint"`
}

// DefaultFactors returns the standard waste factor table.
func DefaultFactors() Factors {
	return Factors{
		Flooring: map[domain.FlooringMaterial]float64{
			domain.FlooringVinyl:    0.10,
			domain.FlooringLaminate: 0.10,
			domain.FlooringCarpet:   0.15,
			domain.FlooringTile:     0.20,
			domain.FlooringHardwood: 0.25,
		},
		Drywall:    0.10,
		Retape:     0.10,
		Baseboard:  0.10,
		Insulation: 0.05,
		Paint:      0.0,
	}
}

// flooringFactor returns the waste factor for a material, defaulting to the
// carpet factor for unknown materials.
func (f Factors) flooringFactor(m domain.FlooringMaterial) float64 {
	if v, ok := f.Flooring[m]; ok {
		return v
	}
	return f.Flooring[domain.FlooringCarpet]
}

// LineItem is one row of the takeoff table.
type LineItem struct {
	Category    string  `json:"category"`
	Item        string  `json:"item"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	WasteFactor float64 `json:"waste_factor"`
}

// Compute builds the takeoff table for the selected work scope. Categories
// with a zero measurement are omitted rather than emitted as zero rows.
// Insulation is applied to the GROSS wall area: batts go in before the
// exact net measurement exists on site.
func Compute(net geometry.Net, gross domain.GrossGeometry, scope domain.WorkScope, f Factors) []LineItem {
	var items []LineItem

	add := func(category, item string, base float64, unit string, waste float64) {
		if base <= 0 {
			return
		}
		items = append(items, LineItem{
			Category:    category,
			Item:        item,
			Quantity:    base * (1 + waste),
			Unit:        unit,
			WasteFactor: waste,
		})
	}

	if scope.Flooring {
		material := scope.FlooringMaterial
		if material == "" {
			material = domain.FlooringCarpet
		}
		add("flooring", string(material), net.FloorArea, "SF", f.flooringFactor(material))
	}

	if scope.DrywallWalls {
		add("drywall", "wall drywall", net.WallArea, "SF", f.Drywall)
		add("drywall", "retape walls", net.WallArea, "SF", f.Retape)
	}
	if scope.DrywallCeiling {
		add("drywall", "ceiling drywall", net.CeilingArea, "SF", f.Drywall)
		add("drywall", "retape ceiling", net.CeilingArea, "SF", f.Retape)
	}

	if scope.Baseboard {
		add("trim", "baseboard", net.FloorPerimeter, "LF", f.Baseboard)
	}
	if scope.QuarterRound {
		add("trim", "quarter round", net.FloorPerimeter, "LF", f.Baseboard)
	}

	if scope.PaintWalls {
		add("paint", "wall paint", net.WallArea, "SF", f.Paint)
	}
	if scope.PaintCeiling {
		add("paint", "ceiling paint", net.CeilingArea, "SF", f.Paint)
	}
	if scope.Primer {
		primerArea := 0.0
		if scope.PaintWalls {
			primerArea += net.WallArea
		}
		if scope.PaintCeiling {
			primerArea += net.CeilingArea
		}
		add("paint", "primer", primerArea, "SF", f.Paint)
	}

	if scope.Insulation {
		add("insulation", "wall insulation", gross.WallArea, "SF", f.Insulation)
	}

	return items
}
