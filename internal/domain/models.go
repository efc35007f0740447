// Package domain defines the core data model for room measurement records:
// opening instances, gross geometry, work scope selections, and the typed
// errors shared by every pipeline stage.
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// OpeningKind enumerates the physical opening types the pipeline recognizes.
type OpeningKind string

const (
	KindInteriorDoor OpeningKind = "interior_door"
	KindExteriorDoor OpeningKind = "exterior_door"
	KindPocketDoor   OpeningKind = "pocket_door"
	KindBifoldDoor   OpeningKind = "bifold_door"
	KindWindow       OpeningKind = "window"
	KindOpenArea     OpeningKind = "open_area"
	KindSkylight     OpeningKind = "skylight"
	KindArchway      OpeningKind = "archway"
	KindPassThrough  OpeningKind = "pass_through"
	KindBuiltIn      OpeningKind = "built_in"
)

// IsDoor reports whether the kind is any door variant.
func (k OpeningKind) IsDoor() bool {
	switch k {
	case KindInteriorDoor, KindExteriorDoor, KindPocketDoor, KindBifoldDoor:
		return true
	}
	return false
}

// PenetratesWall reports whether openings of this kind reduce wall area.
// Skylights penetrate the ceiling, not a wall.
func (k OpeningKind) PenetratesWall() bool {
	switch k {
	case KindInteriorDoor, KindExteriorDoor, KindPocketDoor, KindBifoldDoor,
		KindWindow, KindOpenArea, KindArchway, KindPassThrough, KindBuiltIn:
		return true
	}
	return false
}

// ReachesFloor reports whether openings of this kind interrupt the floor
// perimeter (doors, open wall sections, archways).
func (k OpeningKind) ReachesFloor() bool {
	switch k {
	case KindInteriorDoor, KindExteriorDoor, KindPocketDoor, KindBifoldDoor,
		KindOpenArea, KindArchway:
		return true
	}
	return false
}

// ParseOpeningKind maps a free-text opening type from a model reply to a
// kind. Unrecognized text defaults to an interior door, the most common
// opening in residential sketches.
func ParseOpeningKind(s string) OpeningKind {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(t, "skylight"):
		return KindSkylight
	case strings.Contains(t, "window"):
		return KindWindow
	case strings.Contains(t, "pocket"):
		return KindPocketDoor
	case strings.Contains(t, "bifold") || strings.Contains(t, "bi-fold"):
		return KindBifoldDoor
	case strings.Contains(t, "exterior"):
		return KindExteriorDoor
	case strings.Contains(t, "arch"):
		return KindArchway
	case strings.Contains(t, "pass"):
		return KindPassThrough
	case strings.Contains(t, "built"):
		return KindBuiltIn
	case strings.Contains(t, "open") || strings.Contains(t, "missing wall"):
		return KindOpenArea
	case strings.Contains(t, "door"):
		return KindInteriorDoor
	}
	return KindInteriorDoor
}

// OpeningSource identifies which extraction pass produced an opening.
type OpeningSource string

const (
	SourceTextPass        OpeningSource = "text_pass"
	SourceStructuredPass  OpeningSource = "structured_pass"
	SourceInferredDefault OpeningSource = "inferred_default"
)

// Opening is one physical opening in a room. Width and height are in feet.
type Opening struct {
	Kind       OpeningKind   `json:"kind"`
	Width      float64       `json:"width,omitempty"`
	Height     float64       `json:"height,omitempty"`
	Area       float64       `json:"area,omitempty"`
	ConnectsTo string        `json:"connects_to,omitempty"`
	IsExterior bool          `json:"is_exterior,omitempty"`
	Source     OpeningSource `json:"source,omitempty"`
}

// EffectiveArea returns the explicit area override if set, otherwise
// width times height.
func (o Opening) EffectiveArea() float64 {
	if o.Area > 0 {
		return o.Area
	}
	return o.Width * o.Height
}

// OpeningCounts holds aggregate counts per opening category. After
// reconciliation these always equal the instance counts in the inventory.
type OpeningCounts struct {
	InteriorDoors int `json:"interior_doors,omitempty"`
	ExteriorDoors int `json:"exterior_doors,omitempty"`
	Windows       int `json:"windows,omitempty"`
	OpenAreas     int `json:"open_areas,omitempty"`
	Skylights     int `json:"skylights,omitempty"`
	Other         int `json:"other,omitempty"`
}

// TotalDoors returns the combined interior and exterior door count.
func (c OpeningCounts) TotalDoors() int {
	return c.InteriorDoors + c.ExteriorDoors
}

// OpeningInventory is the ordered collection of openings for one room plus
// the aggregate counts derived from it.
type OpeningInventory struct {
	Openings []Opening     `json:"openings,omitempty"`
	Counts   OpeningCounts `json:"counts,omitzero"`
}

// Recount rebuilds the aggregate counts from the opening instances.
func (inv *OpeningInventory) Recount() {
	var c OpeningCounts
	for _, o := range inv.Openings {
		switch {
		case o.Kind.IsDoor() && (o.Kind == KindExteriorDoor || o.IsExterior):
			c.ExteriorDoors++
		case o.Kind.IsDoor():
			c.InteriorDoors++
		case o.Kind == KindWindow:
			c.Windows++
		case o.Kind == KindOpenArea:
			c.OpenAreas++
		case o.Kind == KindSkylight:
			c.Skylights++
		default:
			c.Other++
		}
	}
	inv.Counts = c
}

// TotalWidth sums opening widths for openings matching the filter.
func (inv OpeningInventory) TotalWidth(match func(Opening) bool) float64 {
	var total float64
	for _, o := range inv.Openings {
		if match(o) {
			total += o.Width
		}
	}
	return total
}

// MinCeilingHeight is the lowest ceiling height accepted as valid, in feet.
// Sub-7 values are domain-invalid for habitable rooms.
const MinCeilingHeight = 7.0

// GrossGeometry holds reported-before-deduction measurements for one room.
// Areas are in square feet, perimeters in linear feet, height in feet.
type GrossGeometry struct {
	FloorArea        float64 `json:"floor_area,omitempty"`
	WallArea         float64 `json:"wall_area,omitempty"`
	CeilingArea      float64 `json:"ceiling_area,omitempty"`
	FloorPerimeter   float64 `json:"floor_perimeter,omitempty"`
	CeilingPerimeter float64 `json:"ceiling_perimeter,omitempty"`
	CeilingHeight    float64 `json:"ceiling_height,omitempty"`
}

// Confidence is the coarse self-assessed extraction reliability. It flags
// records for manual review and never alters computed geometry.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceFailed Confidence = "failed"
)

// NormalizeConfidence maps free-text confidence to a known level.
// Empty or unrecognized input defaults to medium.
func NormalizeConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ConfidenceHigh
	case "low":
		return ConfidenceLow
	case "failed":
		return ConfidenceFailed
	case "medium", "med", "moderate":
		return ConfidenceMedium
	}
	return ConfidenceMedium
}

// MeasurementRecord is the unit of work: one room's gross geometry, opening
// inventory, confidence, and analysis notes. It is created empty, populated
// by the extractor, finalized by reconciliation, and read-only afterwards.
type MeasurementRecord struct {
	ID                  string           `json:"id,omitempty"`
	RoomName            string           `json:"room_name,omitempty"`
	RoomType            string           `json:"room_type,omitempty"`
	Gross               GrossGeometry    `json:"gross,omitzero"`
	Inventory           OpeningInventory `json:"inventory,omitzero"`
	BaseboardLength     float64          `json:"baseboard_length,omitempty"`
	Confidence          Confidence       `json:"confidence,omitempty"`
	AnalysisNotes       string           `json:"analysis_notes,omitempty"`
	DimensionSource     string           `json:"dimension_source,omitempty"`
	RequiresManualInput bool             `json:"requires_manual_input,omitempty"`
}

// NewMeasurementRecord creates an empty record for a room.
func NewMeasurementRecord(roomName, roomType string) *MeasurementRecord {
	return &MeasurementRecord{
		ID:       uuid.NewString(),
		RoomName: roomName,
		RoomType: roomType,
	}
}

// FailedRecord returns the sentinel record emitted when an extraction pass
// could not be parsed: geometry zeroed, empty inventory, flagged for manual
// input.
func FailedRecord(roomName, roomType, notes string) *MeasurementRecord {
	rec := NewMeasurementRecord(roomName, roomType)
	rec.Confidence = ConfidenceFailed
	rec.RequiresManualInput = true
	rec.AnalysisNotes = notes
	return rec
}

// FlooringMaterial enumerates supported flooring selections.
type FlooringMaterial string

const (
	FlooringCarpet   FlooringMaterial = "carpet"
	FlooringVinyl    FlooringMaterial = "vinyl"
	FlooringLaminate FlooringMaterial = "laminate"
	FlooringTile     FlooringMaterial = "tile"
	FlooringHardwood FlooringMaterial = "hardwood"
)

// WorkScope holds the caller-selected work items for a room. It is supplied
// by the caller, never derived.
type WorkScope struct {
	Flooring         bool             `json:"flooring,omitempty" yaml:"flooring"`
	FlooringMaterial FlooringMaterial `json:"flooring_material,omitempty" yaml:"flooring_material"`
	DrywallWalls     bool             `json:"drywall_walls,omitempty" yaml:"drywall_walls"`
	DrywallCeiling   bool             `json:"drywall_ceiling,omitempty" yaml:"drywall_ceiling"`
	Baseboard        bool             `json:"baseboard,omitempty" yaml:"baseboard"`
	QuarterRound     bool             `json:"quarter_round,omitempty" yaml:"quarter_round"`
	PaintWalls       bool             `json:"paint_walls,omitempty" yaml:"paint_walls"`
	PaintCeiling     bool             `json:"paint_ceiling,omitempty" yaml:"paint_ceiling"`
	Primer           bool             `json:"primer,omitempty" yaml:"primer"`
	Insulation       bool             `json:"insulation,omitempty" yaml:"insulation"`
}
