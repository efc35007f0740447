package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roomworks/takeoff/internal/domain"
)

func room() (domain.GrossGeometry, domain.OpeningInventory) {
	gross := domain.GrossGeometry{
		FloorArea:        200,
		WallArea:         480,
		CeilingArea:      200,
		FloorPerimeter:   60,
		CeilingPerimeter: 60,
		CeilingHeight:    8,
	}
	inv := domain.OpeningInventory{
		Openings: []domain.Opening{
			{Kind: domain.KindInteriorDoor, Width: 3.0, Height: 6.67},
			{Kind: domain.KindWindow, Width: 2.5, Height: 4.0},
			{Kind: domain.KindOpenArea, Width: 4.0, Height: 8.0},
			{Kind: domain.KindSkylight, Width: 2.0, Height: 3.0},
		},
	}
	return gross, inv
}

func TestNetWallArea(t *testing.T) {
	gross, inv := room()

	// Door 20.01 + window 10 + open area 32; skylight penetrates the
	// ceiling, not a wall.
	want := 480.0 - (3.0*6.67 + 2.5*4.0 + 4.0*8.0)
	assert.InDelta(t, want, NetWallArea(gross, inv), 1e-9)
}

func TestNetWallAreaHonorsAreaOverride(t *testing.T) {
	gross := domain.GrossGeometry{WallArea: 100}
	inv := domain.OpeningInventory{
		Openings: []domain.Opening{
			{Kind: domain.KindWindow, Width: 2.5, Height: 4.0, Area: 12.0},
		},
	}
	assert.InDelta(t, 88.0, NetWallArea(gross, inv), 1e-9)
}

func TestNetWallAreaClamped(t *testing.T) {
	gross := domain.GrossGeometry{WallArea: 100}
	inv := domain.OpeningInventory{
		Openings: []domain.Opening{
			{Kind: domain.KindOpenArea, Width: 15, Height: 10}, // 150 SF > 100 SF
		},
	}
	assert.Zero(t, NetWallArea(gross, inv))
}

func TestNetFloorPerimeter(t *testing.T) {
	gross, inv := room()

	// Door 3.0 + open area 4.0; windows and skylights do not reach the floor
	assert.InDelta(t, 53.0, NetFloorPerimeter(gross, inv), 1e-9)
}

func TestNetFloorPerimeterScenario(t *testing.T) {
	// 200 SF room, 3 interior doors at 3.0 ft, perimeter 60 LF
	gross := domain.GrossGeometry{FloorArea: 200, FloorPerimeter: 60, CeilingHeight: 8}
	inv := domain.OpeningInventory{
		Openings: []domain.Opening{
			{Kind: domain.KindInteriorDoor, Width: 3.0, Height: 6.67},
			{Kind: domain.KindInteriorDoor, Width: 3.0, Height: 6.67},
			{Kind: domain.KindInteriorDoor, Width: 3.0, Height: 6.67},
		},
	}
	assert.InDelta(t, 51.0, NetFloorPerimeter(gross, inv), 1e-9)
}

func TestNetCeilingPerimeter(t *testing.T) {
	gross, inv := room()

	// Only the full-height open area (8.0 ft = room height) deducts;
	// the 6.67 ft door never does.
	assert.InDelta(t, 56.0, NetCeilingPerimeter(gross, inv), 1e-9)
}

func TestNetCeilingPerimeterHeightTolerance(t *testing.T) {
	gross := domain.GrossGeometry{CeilingPerimeter: 60, CeilingHeight: 8}

	tests := []struct {
		name   string
		height float64
		want   float64
	}{
		{"exact full height", 8.0, 56.0},
		{"within tolerance", 7.6, 56.0},
		{"just outside tolerance", 7.4, 60.0},
		{"door height", 6.67, 60.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := domain.OpeningInventory{
				Openings: []domain.Opening{
					{Kind: domain.KindArchway, Width: 4.0, Height: tt.height},
				},
			}
			assert.InDelta(t, tt.want, NetCeilingPerimeter(gross, inv), 1e-9)
		})
	}
}

func TestNetCeilingArea(t *testing.T) {
	gross, inv := room()
	assert.InDelta(t, 194.0, NetCeilingArea(gross, inv), 1e-9)
}

func TestDeriveIdempotent(t *testing.T) {
	gross, inv := room()

	first := Derive(gross, inv)
	second := Derive(gross, inv)
	assert.Equal(t, first, second)

	// Derivation must not touch its inputs
	assert.Len(t, inv.Openings, 4)
	assert.InDelta(t, 480.0, gross.WallArea, 1e-9)
}

func TestDeriveEmptyInventory(t *testing.T) {
	gross := domain.GrossGeometry{
		FloorArea:        150,
		WallArea:         400,
		CeilingArea:      150,
		FloorPerimeter:   50,
		CeilingPerimeter: 50,
		CeilingHeight:    8,
	}
	net := Derive(gross, domain.OpeningInventory{})

	assert.Equal(t, gross.WallArea, net.WallArea)
	assert.Equal(t, gross.FloorPerimeter, net.FloorPerimeter)
	assert.Equal(t, gross.CeilingPerimeter, net.CeilingPerimeter)
	assert.Equal(t, gross.CeilingArea, net.CeilingArea)
}
