package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomworks/takeoff/internal/domain"
	"github.com/roomworks/takeoff/internal/geometry"
)

func testNet() geometry.Net {
	return geometry.Net{
		FloorArea:        200,
		WallArea:         450,
		CeilingArea:      195,
		FloorPerimeter:   51,
		CeilingPerimeter: 56,
	}
}

func testGross() domain.GrossGeometry {
	return domain.GrossGeometry{
		FloorArea:        200,
		WallArea:         480,
		CeilingArea:      200,
		FloorPerimeter:   60,
		CeilingPerimeter: 60,
		CeilingHeight:    8,
	}
}

func find(items []LineItem, item string) *LineItem {
	for i := range items {
		if items[i].Item == item {
			return &items[i]
		}
	}
	return nil
}

func TestFlooringWasteFactors(t *testing.T) {
	tests := []struct {
		material domain.FlooringMaterial
		want     float64
	}{
		{domain.FlooringCarpet, 200 * 1.15},
		{domain.FlooringVinyl, 200 * 1.10},
		{domain.FlooringLaminate, 200 * 1.10},
		{domain.FlooringTile, 200 * 1.20},
		{domain.FlooringHardwood, 200 * 1.25},
	}

	for _, tt := range tests {
		t.Run(string(tt.material), func(t *testing.T) {
			scope := domain.WorkScope{Flooring: true, FlooringMaterial: tt.material}
			items := Compute(testNet(), testGross(), scope, DefaultFactors())

			row := find(items, string(tt.material))
			require.NotNil(t, row)
			assert.InDelta(t, tt.want, row.Quantity, 1e-9)
			assert.Equal(t, "SF", row.Unit)
		})
	}
}

func TestPaintHasNoWasteFactor(t *testing.T) {
	scope := domain.WorkScope{PaintWalls: true, PaintCeiling: true, Primer: true}
	items := Compute(testNet(), testGross(), scope, DefaultFactors())

	walls := find(items, "wall paint")
	require.NotNil(t, walls)
	assert.Equal(t, 450.0, walls.Quantity, "paint quantity equals net area exactly")
	assert.Zero(t, walls.WasteFactor)

	ceiling := find(items, "ceiling paint")
	require.NotNil(t, ceiling)
	assert.Equal(t, 195.0, ceiling.Quantity)

	primer := find(items, "primer")
	require.NotNil(t, primer)
	assert.Equal(t, 645.0, primer.Quantity)
}

func TestInsulationUsesGrossWallArea(t *testing.T) {
	// Pinned behavior: insulation waste applies to the gross wall area even
	// though every other category uses net values.
	scope := domain.WorkScope{Insulation: true}
	items := Compute(testNet(), testGross(), scope, DefaultFactors())

	row := find(items, "wall insulation")
	require.NotNil(t, row)
	assert.InDelta(t, 480*1.05, row.Quantity, 1e-9)
}

func TestDrywallIncludesRetape(t *testing.T) {
	scope := domain.WorkScope{DrywallWalls: true}
	items := Compute(testNet(), testGross(), scope, DefaultFactors())

	require.Len(t, items, 2)
	drywall := find(items, "wall drywall")
	require.NotNil(t, drywall)
	assert.InDelta(t, 450*1.10, drywall.Quantity, 1e-9)

	retape := find(items, "retape walls")
	require.NotNil(t, retape)
	assert.InDelta(t, 450*1.10, retape.Quantity, 1e-9)
}

func TestBaseboardAndQuarterRound(t *testing.T) {
	scope := domain.WorkScope{Baseboard: true, QuarterRound: true}
	items := Compute(testNet(), testGross(), scope, DefaultFactors())

	baseboard := find(items, "baseboard")
	require.NotNil(t, baseboard)
	assert.InDelta(t, 51*1.10, baseboard.Quantity, 1e-9)
	assert.Equal(t, "LF", baseboard.Unit)

	qr := find(items, "quarter round")
	require.NotNil(t, qr)
	assert.InDelta(t, 51*1.10, qr.Quantity, 1e-9)
}

func TestZeroAreasAreOmitted(t *testing.T) {
	scope := domain.WorkScope{
		Flooring:     true,
		DrywallWalls: true,
		Baseboard:    true,
		PaintWalls:   true,
		Insulation:   true,
	}
	items := Compute(geometry.Net{}, domain.GrossGeometry{}, scope, DefaultFactors())
	assert.Empty(t, items, "zero-area categories are omitted, not emitted as zero")
}

func TestUnselectedScopeOmitted(t *testing.T) {
	items := Compute(testNet(), testGross(), domain.WorkScope{Flooring: true, FlooringMaterial: domain.FlooringCarpet}, DefaultFactors())
	require.Len(t, items, 1)
	assert.Equal(t, "flooring", items[0].Category)
}

func TestUnknownFlooringFallsBackToCarpet(t *testing.T) {
	scope := domain.WorkScope{Flooring: true, FlooringMaterial: "bamboo"}
	items := Compute(testNet(), testGross(), scope, DefaultFactors())

	require.Len(t, items, 1)
	assert.InDelta(t, 200*1.15, items[0].Quantity, 1e-9)
}
