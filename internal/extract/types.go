// Package extract orchestrates the two-pass extraction protocol: a text
// verification pass that transcribes the sketch with self-reported counts,
// then a structured pass that produces typed openings and gross geometry.
package extract

import (
	"strconv"
	"strings"

	"github.com/roomworks/takeoff/internal/domain"
	"github.com/roomworks/takeoff/internal/parse"
)

// TextOpening is one opening line recognized by the verification pass.
type TextOpening struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	SizeInfo   string `json:"size_info"`
	Connection string `json:"connection"`
}

// TextPassResult holds the verification pass outcome. On parse failure only
// Raw and ParseFailed are meaningful.
type TextPassResult struct {
	Raw         string
	ParseFailed bool

	Lines             []string
	RoomName          string
	RoomType          string
	DimensionsText    string
	CeilingHeightText string
	Openings          []TextOpening

	DoorCount     int
	WindowCount   int
	OpenAreaCount int
	Confidence    domain.Confidence
}

// StructuredPassResult holds the structured extraction pass outcome. On
// parse failure only Raw and ParseFailed are meaningful.
type StructuredPassResult struct {
	Raw         string
	ParseFailed bool

	RoomName string
	RoomType string
	Length   float64
	Width    float64

	Gross     domain.GrossGeometry
	Perimeter float64
	Openings  []domain.Opening

	InteriorDoorCount int
	ExteriorDoorCount int
	WindowCount       int
	OpenAreaCount     int
	SkylightCount     int

	BaseboardLength float64
	Confidence      domain.Confidence
	AnalysisNotes   string
	DimensionSource string
}

// decodeTextPass interprets a raw verification reply. Malformed replies
// produce a result flagged ParseFailed with the raw text preserved; they
// never produce an error.
func decodeTextPass(raw string) *TextPassResult {
	res := &TextPassResult{Raw: raw}

	obj, err := parse.Object(raw)
	if err != nil {
		res.ParseFailed = true
		return res
	}

	for _, v := range asSlice(obj, "all_text_lines") {
		if s, ok := v.(string); ok {
			res.Lines = append(res.Lines, s)
		}
	}

	info := asMap(obj, "room_info")
	res.RoomName = asString(info, "room_name")
	res.RoomType = asString(info, "room_type")

	meas := asMap(obj, "measurements_found")
	res.DimensionsText = asString(meas, "dimensions_text")
	res.CeilingHeightText = asString(meas, "ceiling_height_text")

	for _, v := range asSlice(obj, "openings_found") {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		res.Openings = append(res.Openings, TextOpening{
			Type:       asString(m, "type"),
			Text:       asString(m, "text"),
			SizeInfo:   asString(m, "size_info"),
			Connection: asString(m, "connection"),
		})
	}

	ver := asMap(obj, "verification")
	res.DoorCount = asCount(ver, "total_doors_counted")
	res.WindowCount = asCount(ver, "total_windows_counted")
	res.OpenAreaCount = asCount(ver, "total_open_areas_counted")
	res.Confidence = domain.NormalizeConfidence(asString(ver, "confidence_level"))

	return res
}

// decodeStructuredPass interprets a raw structured-extraction reply. The
// loose model output is validated and coerced here, in one place, so the
// stages above it only ever see typed values.
func decodeStructuredPass(raw string) *StructuredPassResult {
	res := &StructuredPassResult{Raw: raw}

	obj, err := parse.Object(raw)
	if err != nil {
		res.ParseFailed = true
		return res
	}

	ident := asMap(obj, "room_identification")
	res.RoomName = asString(ident, "room_name")
	res.RoomType = asString(ident, "room_type")

	dims := asMap(obj, "extracted_dimensions")
	res.Length = asFloat(dims, "length_ft")
	res.Width = asFloat(dims, "width_ft")

	geom := asMap(obj, "room_geometry")
	res.Gross = domain.GrossGeometry{
		FloorArea:        asFloat(geom, "floor_area_sf"),
		WallArea:         asFloat(geom, "wall_area_sf"),
		CeilingArea:      asFloat(geom, "ceiling_area_sf"),
		FloorPerimeter:   asFloat(geom, "floor_perimeter_lf"),
		CeilingPerimeter: asFloat(geom, "ceiling_perimeter_lf"),
		CeilingHeight:    asFloat(geom, "ceiling_height_ft"),
	}
	res.Perimeter = asFloat(geom, "perimeter_lf")

	summary := asMap(obj, "openings_summary")
	res.InteriorDoorCount = asCount(summary, "total_interior_doors")
	res.ExteriorDoorCount = asCount(summary, "total_exterior_doors")
	res.WindowCount = asCount(summary, "total_windows")
	res.OpenAreaCount = asCount(summary, "total_open_areas")
	res.SkylightCount = asCount(summary, "total_skylights")

	for _, v := range asSlice(obj, "detailed_openings") {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		opening := domain.Opening{
			Kind:       domain.ParseOpeningKind(asString(m, "type")),
			Width:      asFloat(m, "width_ft"),
			Height:     asFloat(m, "height_ft"),
			Area:       asFloat(m, "area_sf"),
			ConnectsTo: asString(m, "connects_to"),
			IsExterior: asBool(m, "is_exterior"),
			Source:     domain.SourceStructuredPass,
		}
		if opening.ConnectsTo == "" {
			opening.ConnectsTo = asString(m, "location")
		}
		res.Openings = append(res.Openings, opening)
	}

	materials := asMap(obj, "calculated_materials")
	res.BaseboardLength = asFloat(materials, "baseboard_length_lf")

	res.Confidence = domain.NormalizeConfidence(asString(obj, "confidence_level"))
	res.AnalysisNotes = asString(obj, "analysis_notes")
	res.DimensionSource = asString(obj, "dimension_source")

	return res
}

// Coercion helpers. Models emit numbers as strings and omit keys at will, so
// every lookup tolerates a missing key or the wrong scalar type and falls
// back to a zero value.

func asMap(obj map[string]any, key string) map[string]any {
	if obj == nil {
		return nil
	}
	m, _ := obj[key].(map[string]any)
	return m
}

func asSlice(obj map[string]any, key string) []any {
	if obj == nil {
		return nil
	}
	s, _ := obj[key].([]any)
	return s
}

func asString(obj map[string]any, key string) string {
	if obj == nil {
		return ""
	}
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func asFloat(obj map[string]any, key string) float64 {
	if obj == nil {
		return 0
	}
	switch v := obj[key].(type) {
	case float64:
		if v < 0 {
			return 0
		}
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f < 0 {
			return 0
		}
		return f
	}
	return 0
}

func asCount(obj map[string]any, key string) int {
	return int(asFloat(obj, key))
}

func asBool(obj map[string]any, key string) bool {
	if obj == nil {
		return false
	}
	switch v := obj[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return false
}
