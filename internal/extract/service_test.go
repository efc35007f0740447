package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/roomworks/takeoff/internal/domain"
)

// fakeGateway replays canned replies and records the prompts it was sent.
type fakeGateway struct {
	replies []string
	errs    []error
	prompts []string
	images  [][]byte
}

func (f *fakeGateway) Send(ctx context.Context, image []byte, prompt string) (string, error) {
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	f.images = append(f.images, image)
	if call < len(f.errs) && f.errs[call] != nil {
		return "", f.errs[call]
	}
	if call < len(f.replies) {
		return f.replies[call], nil
	}
	return "", errors.New("unexpected call")
}

const textReply = `{
  "all_text_lines": ["SUMP ROOM", "12' x 10'", "DOOR TO HALL 3'0\"", "WINDOW 2'6\" x 4'0\""],
  "room_info": {"room_name": "Sump Room", "room_type": "basement"},
  "measurements_found": {"dimensions_text": "12' x 10'", "ceiling_height_text": "8'"},
  "openings_found": [
    {"type": "door", "text": "DOOR TO HALL 3'0\"", "size_info": "3'0\"", "connection": "Hall"},
    {"type": "window", "text": "WINDOW 2'6\" x 4'0\"", "size_info": "2'6\" x 4'0\"", "connection": ""}
  ],
  "verification": {"total_doors_counted": 1, "total_windows_counted": 1, "total_open_areas_counted": 0, "confidence_level": "high"}
}`

const structuredReply = `{
  "room_identification": {"room_name": "Sump Room", "room_type": "basement"},
  "extracted_dimensions": {"length_ft": 12.0, "width_ft": 10.0},
  "room_geometry": {"floor_area_sf": 120.0, "wall_area_sf": 352.0, "ceiling_area_sf": 120.0, "floor_perimeter_lf": 44.0, "ceiling_perimeter_lf": 44.0, "perimeter_lf": 44.0, "ceiling_height_ft": 8.0},
  "openings_summary": {"total_interior_doors": 1, "total_exterior_doors": 0, "total_windows": 1, "total_open_areas": 0, "total_skylights": 0},
  "detailed_openings": [
    {"type": "interior_door", "width_ft": 3.0, "height_ft": 6.67, "area_sf": 20.0, "location": "north wall", "connects_to": "Hall", "is_exterior": false},
    {"type": "window", "width_ft": 2.5, "height_ft": 4.0, "area_sf": 10.0, "location": "east wall", "connects_to": "", "is_exterior": true}
  ],
  "calculated_materials": {"baseboard_length_lf": 41.0},
  "confidence_level": "high",
  "analysis_notes": "Dimensions labeled on sketch.",
  "dimension_source": "labeled"
}`

func TestExtractRunsPassesInOrder(t *testing.T) {
	gw := &fakeGateway{replies: []string{textReply, structuredReply}}
	svc := NewService(gw, zerolog.Nop())

	textPass, structuredPass, err := svc.Extract(context.Background(), []byte("img"), "Sump Room", "basement")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(gw.prompts) != 2 {
		t.Fatalf("expected 2 gateway calls, got %d", len(gw.prompts))
	}
	if !strings.Contains(gw.prompts[0], "verbatim") {
		t.Error("first call should carry the text verification prompt")
	}
	if !strings.Contains(gw.prompts[1], "detailed_openings") {
		t.Error("second call should carry the structured extraction prompt")
	}
	// The structured prompt embeds the text pass findings as grounding
	if !strings.Contains(gw.prompts[1], `"total_doors_counted":1`) {
		t.Error("structured prompt should embed the text pass counts")
	}

	if textPass.ParseFailed || structuredPass.ParseFailed {
		t.Fatal("neither pass should be flagged as a parse failure")
	}
	if textPass.DoorCount != 1 || textPass.WindowCount != 1 {
		t.Errorf("text pass counts = %d doors, %d windows", textPass.DoorCount, textPass.WindowCount)
	}
	if textPass.Confidence != domain.ConfidenceHigh {
		t.Errorf("text pass confidence = %q", textPass.Confidence)
	}
	if len(structuredPass.Openings) != 2 {
		t.Fatalf("expected 2 structured openings, got %d", len(structuredPass.Openings))
	}
	if structuredPass.Openings[0].Kind != domain.KindInteriorDoor || structuredPass.Openings[0].ConnectsTo != "Hall" {
		t.Errorf("first opening = %+v", structuredPass.Openings[0])
	}
	if structuredPass.Gross.FloorArea != 120.0 || structuredPass.Gross.CeilingHeight != 8.0 {
		t.Errorf("gross geometry = %+v", structuredPass.Gross)
	}
}

func TestExtractSoftParseFailure(t *testing.T) {
	gw := &fakeGateway{replies: []string{"I could not read the sketch.", structuredReply}}
	svc := NewService(gw, zerolog.Nop())

	textPass, structuredPass, err := svc.Extract(context.Background(), []byte("img"), "", "")
	if err != nil {
		t.Fatalf("parse failures must not surface as errors: %v", err)
	}

	if !textPass.ParseFailed {
		t.Error("text pass should be flagged ParseFailed")
	}
	if textPass.Raw != "I could not read the sketch." {
		t.Errorf("raw reply should be preserved, got %q", textPass.Raw)
	}
	if structuredPass.ParseFailed {
		t.Error("structured pass should still parse")
	}
	// Grounding context degrades to the unavailable marker
	if !strings.Contains(gw.prompts[1], "verification_unavailable") {
		t.Error("structured prompt should flag missing verification context")
	}
}

func TestExtractTransportFailure(t *testing.T) {
	gw := &fakeGateway{errs: []error{domain.APIError("connection refused", nil)}}
	svc := NewService(gw, zerolog.Nop())

	_, _, err := svc.Extract(context.Background(), []byte("img"), "", "")
	if err == nil {
		t.Fatal("transport failures must propagate")
	}
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Code != domain.CodeAPI {
		t.Errorf("expected an API error, got %v", err)
	}
}

func TestDecodeStructuredPassCoercion(t *testing.T) {
	// Numbers as strings, negative values, missing keys
	raw := `{
	  "room_geometry": {"floor_area_sf": "120.5", "wall_area_sf": -10, "ceiling_height_ft": "8"},
	  "detailed_openings": [{"type": "window", "width_ft": "2.5", "height_ft": 4, "is_exterior": "true"}],
	  "confidence_level": "unsure"
	}`
	res := decodeStructuredPass(raw)

	if res.ParseFailed {
		t.Fatal("reply should parse")
	}
	if res.Gross.FloorArea != 120.5 {
		t.Errorf("FloorArea = %f, want 120.5", res.Gross.FloorArea)
	}
	if res.Gross.WallArea != 0 {
		t.Errorf("negative wall area should coerce to 0, got %f", res.Gross.WallArea)
	}
	if res.Gross.CeilingHeight != 8 {
		t.Errorf("CeilingHeight = %f, want 8", res.Gross.CeilingHeight)
	}
	if len(res.Openings) != 1 {
		t.Fatalf("expected 1 opening, got %d", len(res.Openings))
	}
	if res.Openings[0].Width != 2.5 || !res.Openings[0].IsExterior {
		t.Errorf("opening = %+v", res.Openings[0])
	}
	if res.Confidence != domain.ConfidenceMedium {
		t.Errorf("unrecognized confidence should normalize to medium, got %q", res.Confidence)
	}
}
