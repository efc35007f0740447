package llm

import (
	"fmt"
	"strings"
)

// BuildTextVerificationPrompt creates the first-pass prompt. The pass asks
// for a verbatim transcription with self-reported opening counts: free-form
// reading is more reliable for presence and count than for typed fields.
func BuildTextVerificationPrompt(roomName, roomType string) string {
	var hint strings.Builder
	if roomName != "" {
		fmt.Fprintf(&hint, "\nThe caller labeled this room %q.", roomName)
	}
	if roomType != "" {
		fmt.Fprintf(&hint, " The room type is expected to be %q.", roomType)
	}

	return `You are a construction measurement reading expert. Analyze this photograph or sketch of a single room.` + hint.String() + `

YOUR TASK: transcribe every visible line of text VERBATIM, then self-report what you counted. Do NOT interpret or convert measurements in this pass - copy the text exactly as written.

Return ONLY a valid JSON object with this structure:

{
  "all_text_lines": ["every visible text line, verbatim, one entry per line"],
  "room_info": {
    "room_name": "room name as written on the sketch, or empty string",
    "room_type": "bedroom|bathroom|kitchen|living_room|basement|garage|hallway|other or empty string"
  },
  "measurements_found": {
    "dimensions_text": "the raw dimension text, e.g. 12'6\" x 10'0\", or empty string",
    "ceiling_height_text": "the raw ceiling height text, or empty string"
  },
  "openings_found": [
    {
      "type": "door|exterior door|pocket door|bifold door|window|open area|archway|skylight|pass-through|built-in",
      "text": "the original text line describing this opening, verbatim",
      "size_info": "the size substring of that line, or empty string",
      "connection": "the location/room the opening connects to, or empty string"
    }
  ],
  "verification": {
    "total_doors_counted": 0,
    "total_windows_counted": 0,
    "total_open_areas_counted": 0,
    "confidence_level": "high|medium|low"
  }
}

COUNTING RULES (CRITICAL):
- Count EVERY opening you can see, whether or not it has a text label
- Doors of every kind (interior, exterior, pocket, bifold) count toward total_doors_counted
- Open wall sections, missing walls, and wide cased openings count toward total_open_areas_counted
- A door drawn with a swing arc is a door even if unlabeled
- When unsure whether two marks are one opening or two, count two and say so in the text line

CONFIDENCE RULES:
- "high": all text is legible and every opening is clearly marked
- "medium": most text is legible, one or two openings are ambiguous
- "low": significant text is illegible or the sketch is unclear

OUTPUT RULES:
- Return ONLY the JSON object, no markdown formatting, no explanations
- No comments, no trailing commas, no backticks
- Transcribe text lines EXACTLY, including abbreviations and misspellings
- Use empty strings and empty arrays rather than omitting keys`
}

// BuildStructuredExtractionPrompt creates the second-pass prompt. The first
// pass's findings are folded in as grounding context so the typed extraction
// cannot silently drop openings the transcription saw.
func BuildStructuredExtractionPrompt(roomName, roomType, textFindings string) string {
	var hint strings.Builder
	if roomName != "" {
		fmt.Fprintf(&hint, "\nThe caller labeled this room %q.", roomName)
	}
	if roomType != "" {
		fmt.Fprintf(&hint, " The room type is expected to be %q.", roomType)
	}

	return `You are a construction estimating expert. Analyze this photograph or sketch of a single room and produce a complete typed measurement record.` + hint.String() + `

A separate verification pass already transcribed the sketch. Its findings are your grounding context - your opening list MUST account for every opening it found:

` + textFindings + `

Return ONLY a valid JSON object with this structure:

{
  "room_identification": {
    "room_name": "string",
    "room_type": "bedroom|bathroom|kitchen|living_room|basement|garage|hallway|other"
  },
  "extracted_dimensions": {
    "length_ft": 0.0,
    "width_ft": 0.0
  },
  "room_geometry": {
    "floor_area_sf": 0.0,
    "wall_area_sf": 0.0,
    "ceiling_area_sf": 0.0,
    "floor_perimeter_lf": 0.0,
    "ceiling_perimeter_lf": 0.0,
    "perimeter_lf": 0.0,
    "ceiling_height_ft": 0.0
  },
  "openings_summary": {
    "total_interior_doors": 0,
    "total_exterior_doors": 0,
    "total_windows": 0,
    "total_open_areas": 0,
    "total_skylights": 0
  },
  "detailed_openings": [
    {
      "type": "interior_door|exterior_door|pocket_door|bifold_door|window|open_area|skylight|archway|pass_through|built_in",
      "width_ft": 0.0,
      "height_ft": 0.0,
      "area_sf": 0.0,
      "location": "which wall or position",
      "connects_to": "room or space on the other side",
      "is_exterior": false
    }
  ],
  "calculated_materials": {
    "baseboard_length_lf": 0.0
  },
  "confidence_level": "high|medium|low",
  "analysis_notes": "string",
  "dimension_source": "labeled|scaled|estimated"
}

GEOMETRY RULES:
- All measurements in feet, square feet (SF), or linear feet (LF)
- Gross values only: do NOT subtract openings from wall area or perimeters
- wall_area_sf = floor perimeter x ceiling height when not labeled
- If ceiling height is not labeled, use 8.0 and say so in analysis_notes
- Treat the room as rectangular-equivalent; fold alcoves into length/width

OPENING RULES (CRITICAL):
- One detailed_openings entry per physical opening - the verification pass found specific openings and your list must match
- detailed_openings length MUST equal the totals in openings_summary
- Standard sizes when unlabeled: doors 3.0 x 6.67, windows 2.5 x 4.0
- is_exterior is true when the opening leads outside the building

OUTPUT RULES:
- Return ONLY the JSON object, no markdown formatting, no explanations
- No comments, no trailing commas, no backticks
- Use 0.0 for unknown numbers, never null or omitted keys`
}
