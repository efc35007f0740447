// Package reconcile merges the two extraction passes into one consistent
// measurement record. The passes are two independently-sampled unreliable
// readings of the same sketch; reconciliation deduplicates the structured
// opening list, fills the gaps the typed pass missed, cross-checks counts
// against the verification pass, and recomputes dependent totals.
package reconcile

import (
	"fmt"
	"math"
	"strings"

	"github.com/roomworks/takeoff/internal/domain"
	"github.com/roomworks/takeoff/internal/extract"
)

const (
	// CountDisagreementTolerance is the allowed difference between the two
	// passes' aggregate counts before the text pass's count wins. The text
	// pass optimizes for exhaustive enumeration, so it is the
	// higher-confidence signal on presence and count.
	CountDisagreementTolerance = 1

	// DuplicateDimensionTolerance is the width/height difference, in feet,
	// under which two same-kind, same-connection openings are duplicates.
	DuplicateDimensionTolerance = 0.2
)

// Kind-specific default sizes for synthesized openings, in feet.
const (
	defaultDoorWidth     = 3.0
	defaultDoorHeight    = 6.67
	defaultWindowWidth   = 2.5
	defaultWindowHeight  = 4.0
	floorWindowHeight    = 6.0
	defaultOpenAreaWidth = 4.0
)

// Reconcile merges the two pass results into a measurement record. It is a
// pure reducer: the inputs are never mutated and the same pair always
// produces an equivalent record.
func Reconcile(text *extract.TextPassResult, structured *extract.StructuredPassResult) *domain.MeasurementRecord {
	// A failed parse on either side means there is nothing trustworthy to
	// merge; no partial merge is attempted.
	if text == nil || structured == nil || text.ParseFailed || structured.ParseFailed {
		return domain.FailedRecord(
			pickName(text, structured),
			pickType(text, structured),
			"extraction pass returned no parseable JSON; manual measurement entry required",
		)
	}

	rec := domain.NewMeasurementRecord(pickName(text, structured), pickType(text, structured))
	var notes []string
	if structured.AnalysisNotes != "" {
		notes = append(notes, structured.AnalysisNotes)
	}

	openings := dedupe(structured.Openings)
	if dropped := len(structured.Openings) - len(openings); dropped > 0 {
		notes = append(notes, fmt.Sprintf("removed %d duplicate opening(s)", dropped))
	}
	notes = append(notes, summaryMismatchNotes(structured)...)

	openings, filled := fillGaps(openings, text.Openings)
	if filled > 0 {
		notes = append(notes, fmt.Sprintf("added %d opening(s) from text verification with default sizes", filled))
	}

	gross := resolveFloorPerimeter(structured)

	openings, checkNotes := crossCheckCounts(openings, text)
	notes = append(notes, checkNotes...)

	rec.Inventory.Openings = openings
	rec.Inventory.Recount()

	rec.Gross = sanitizeGeometry(gross)
	rec.BaseboardLength = baseboardLength(rec.Gross.FloorPerimeter, rec.Inventory, structured.BaseboardLength)

	rec.Confidence = text.Confidence
	rec.AnalysisNotes = strings.Join(notes, "; ")
	rec.DimensionSource = structured.DimensionSource

	return rec
}

// dedupe removes duplicate openings from the structured list: same kind,
// same normalized connection, and width/height within tolerance. The first
// occurrence wins.
func dedupe(openings []domain.Opening) []domain.Opening {
	kept := make([]domain.Opening, 0, len(openings))
	for _, o := range openings {
		dup := false
		for _, k := range kept {
			if isDuplicate(o, k) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, o)
		}
	}
	return kept
}

func isDuplicate(a, b domain.Opening) bool {
	return a.Kind == b.Kind &&
		normalizeConnection(a.ConnectsTo) == normalizeConnection(b.ConnectsTo) &&
		math.Abs(a.Width-b.Width) < DuplicateDimensionTolerance &&
		math.Abs(a.Height-b.Height) < DuplicateDimensionTolerance
}

// normalizeConnection folds casing, separators, and numbering variants so
// "Sump_Room2" and "Sump Room 2" compare equal.
func normalizeConnection(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fillGaps synthesizes a default opening for each text-pass opening line
// the structured pass has no instance for. Runs only when the text pass
// found more opening lines than the structured pass produced instances.
func fillGaps(openings []domain.Opening, textOpenings []extract.TextOpening) ([]domain.Opening, int) {
	out := append([]domain.Opening(nil), openings...)
	if len(textOpenings) <= len(out) {
		return out, 0
	}

	used := make([]bool, len(out))
	filled := 0
	for _, to := range textOpenings {
		kind := domain.ParseOpeningKind(to.Type)
		matched := false
		for i := range out {
			if !used[i] && sameCategory(out[i].Kind, kind) {
				used[i] = true
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		out = append(out, defaultOpening(to))
		used = append(used, true)
		filled++
	}
	return out, filled
}

// sameCategory groups kinds the way the verification pass counts them, so a
// text line reading "door" matches a structured pocket_door instance.
func sameCategory(a, b domain.OpeningKind) bool {
	return category(a) == category(b)
}

func category(k domain.OpeningKind) string {
	switch {
	case k.IsDoor():
		return "door"
	case k == domain.KindWindow:
		return "window"
	case k == domain.KindOpenArea || k == domain.KindArchway || k == domain.KindPassThrough:
		return "open_area"
	}
	return string(k)
}

// defaultOpening builds an opening from a text-pass line using kind-specific
// default sizes. Exterior placement is inferred from the connection text:
// interior space keywords mean interior.
func defaultOpening(to extract.TextOpening) domain.Opening {
	kind := domain.ParseOpeningKind(to.Type)
	exterior := !connectsInterior(to.Connection)

	o := domain.Opening{
		Kind:       kind,
		ConnectsTo: to.Connection,
		IsExterior: exterior,
		Source:     domain.SourceInferredDefault,
	}

	switch category(kind) {
	case "door":
		o.Width, o.Height = defaultDoorWidth, defaultDoorHeight
	case "window":
		o.Width, o.Height = defaultWindowWidth, defaultWindowHeight
		if goesToFloor(to) {
			o.Height = floorWindowHeight
		}
	case "open_area":
		o.Width, o.Height = defaultOpenAreaWidth, defaultDoorHeight
	default:
		o.Width, o.Height = defaultWindowWidth, defaultWindowHeight
	}

	return o
}

func goesToFloor(to extract.TextOpening) bool {
	t := strings.ToLower(to.Text + " " + to.SizeInfo)
	return strings.Contains(t, "to floor") || strings.Contains(t, "to the floor")
}

// Interior space keywords: a connection naming one of these is inside the
// building envelope.
var interiorKeywords = []string{"room", "area", "closet", "hall"}

func connectsInterior(connection string) bool {
	c := strings.ToLower(connection)
	for _, kw := range interiorKeywords {
		if strings.Contains(c, kw) {
			return true
		}
	}
	return false
}

// resolveFloorPerimeter ensures a floor perimeter value exists, falling back
// to the generic perimeter, then the ceiling perimeter, in that order.
func resolveFloorPerimeter(structured *extract.StructuredPassResult) domain.GrossGeometry {
	gross := structured.Gross
	if gross.FloorPerimeter == 0 {
		if structured.Perimeter > 0 {
			gross.FloorPerimeter = structured.Perimeter
		} else {
			gross.FloorPerimeter = gross.CeilingPerimeter
		}
	}
	return gross
}

// crossCheckCounts compares the two passes' aggregate counts per category.
// When they disagree by more than the tolerance the text pass's count wins
// in both directions: missing instances are synthesized with default sizes,
// surplus typed instances are dropped from the end of the list.
func crossCheckCounts(openings []domain.Opening, text *extract.TextPassResult) ([]domain.Opening, []string) {
	out := append([]domain.Opening(nil), openings...)
	var notes []string

	checks := []struct {
		label     string
		textCount int
		kind      domain.OpeningKind
	}{
		{"doors", text.DoorCount, domain.KindInteriorDoor},
		{"windows", text.WindowCount, domain.KindWindow},
		{"open areas", text.OpenAreaCount, domain.KindOpenArea},
	}

	for _, ch := range checks {
		have := 0
		for _, o := range out {
			if sameCategory(o.Kind, ch.kind) {
				have++
			}
		}
		diff := ch.textCount - have
		if diff > CountDisagreementTolerance {
			for i := 0; i < diff; i++ {
				out = append(out, defaultOpening(extract.TextOpening{Type: string(ch.kind)}))
			}
			notes = append(notes, fmt.Sprintf("text pass counted %d %s but structured pass produced %d; trusting text count", ch.textCount, ch.label, have))
		} else if -diff > CountDisagreementTolerance {
			out = dropSurplus(out, ch.kind, -diff)
			notes = append(notes, fmt.Sprintf("structured pass produced %d %s but text pass counted %d; trusting text count", have, ch.label, ch.textCount))
		}
	}

	return out, notes
}

// dropSurplus removes the last n openings of the category, keeping earlier
// list positions, mirroring first-occurrence-wins dedup.
func dropSurplus(openings []domain.Opening, kind domain.OpeningKind, n int) []domain.Opening {
	out := append([]domain.Opening(nil), openings...)
	for i := len(out) - 1; i >= 0 && n > 0; i-- {
		if sameCategory(out[i].Kind, kind) {
			out = append(out[:i], out[i+1:]...)
			n--
		}
	}
	return out
}

// summaryMismatchNotes reports categories where the structured pass's own
// aggregate counts disagree with its typed opening list by more than the
// cross-check tolerance. The typed list stays authoritative for that pass;
// the disagreement is surfaced for review.
func summaryMismatchNotes(structured *extract.StructuredPassResult) []string {
	listed := make(map[string]int)
	for _, o := range structured.Openings {
		listed[category(o.Kind)]++
	}

	reported := []struct {
		label string
		cat   string
		count int
	}{
		{"doors", "door", structured.InteriorDoorCount + structured.ExteriorDoorCount},
		{"windows", "window", structured.WindowCount},
		{"open areas", "open_area", structured.OpenAreaCount},
		{"skylights", string(domain.KindSkylight), structured.SkylightCount},
	}

	var notes []string
	for _, r := range reported {
		diff := r.count - listed[r.cat]
		if diff > CountDisagreementTolerance || -diff > CountDisagreementTolerance {
			notes = append(notes, fmt.Sprintf("structured summary reported %d %s but listed %d", r.count, r.label, listed[r.cat]))
		}
	}
	return notes
}

// baseboardLength recomputes the installable baseboard run from the floor
// perimeter minus door and open-area widths, clamped at zero. Without any
// perimeter value the model's own reported length is the only signal left.
func baseboardLength(floorPerimeter float64, inv domain.OpeningInventory, reported float64) float64 {
	if floorPerimeter == 0 {
		return math.Max(0, reported)
	}
	deducted := floorPerimeter -
		inv.TotalWidth(func(o domain.Opening) bool { return o.Kind.IsDoor() }) -
		inv.TotalWidth(func(o domain.Opening) bool { return o.Kind == domain.KindOpenArea })
	return math.Max(0, deducted)
}

// sanitizeGeometry coerces every numeric field to a usable value: NaN,
// infinity, and negatives become zero so downstream arithmetic never sees
// a missing value.
func sanitizeGeometry(g domain.GrossGeometry) domain.GrossGeometry {
	return domain.GrossGeometry{
		FloorArea:        sanitize(g.FloorArea),
		WallArea:         sanitize(g.WallArea),
		CeilingArea:      sanitize(g.CeilingArea),
		FloorPerimeter:   sanitize(g.FloorPerimeter),
		CeilingPerimeter: sanitize(g.CeilingPerimeter),
		CeilingHeight:    sanitize(g.CeilingHeight),
	}
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func pickName(text *extract.TextPassResult, structured *extract.StructuredPassResult) string {
	if structured != nil && structured.RoomName != "" {
		return structured.RoomName
	}
	if text != nil {
		return text.RoomName
	}
	return ""
}

func pickType(text *extract.TextPassResult, structured *extract.StructuredPassResult) string {
	if structured != nil && structured.RoomType != "" {
		return structured.RoomType
	}
	if text != nil {
		return text.RoomType
	}
	return ""
}
