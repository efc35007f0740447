package extract

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/roomworks/takeoff/internal/llm"
)

// Gateway sends an image plus a prompt to a vision model and returns the
// raw reply text.
type Gateway interface {
	Send(ctx context.Context, image []byte, prompt string) (string, error)
}

// Service runs the two extraction passes against a model gateway.
type Service struct {
	gw  Gateway
	log zerolog.Logger
}

// NewService creates a new extraction service.
func NewService(gw Gateway, log zerolog.Logger) *Service {
	return &Service{
		gw:  gw,
		log: log.With().Str("component", "extract").Logger(),
	}
}

// Extract runs the text verification pass, folds its findings into the
// structured pass prompt, and runs the structured pass. The passes are
// strictly sequential. Transport failures surface as errors; unparseable
// replies come back as pass results flagged ParseFailed with the raw text
// preserved. The service does not retry parse failures.
func (s *Service) Extract(ctx context.Context, image []byte, roomName, roomType string) (*TextPassResult, *StructuredPassResult, error) {
	s.log.Debug().Str("room", roomName).Int("image_bytes", len(image)).Msg("starting text verification pass")

	textReply, err := s.gw.Send(ctx, image, llm.BuildTextVerificationPrompt(roomName, roomType))
	if err != nil {
		return nil, nil, err
	}

	textPass := decodeTextPass(textReply)
	if textPass.ParseFailed {
		s.log.Warn().Int("reply_len", len(textReply)).Msg("text verification reply had no parseable JSON")
	} else {
		s.log.Debug().
			Int("lines", len(textPass.Lines)).
			Int("doors", textPass.DoorCount).
			Int("windows", textPass.WindowCount).
			Int("open_areas", textPass.OpenAreaCount).
			Msg("text verification pass complete")
	}

	structuredReply, err := s.gw.Send(ctx, image, llm.BuildStructuredExtractionPrompt(roomName, roomType, textFindings(textPass)))
	if err != nil {
		return nil, nil, err
	}

	structuredPass := decodeStructuredPass(structuredReply)
	if structuredPass.ParseFailed {
		s.log.Warn().Int("reply_len", len(structuredReply)).Msg("structured extraction reply had no parseable JSON")
	} else {
		s.log.Debug().
			Int("openings", len(structuredPass.Openings)).
			Float64("floor_area", structuredPass.Gross.FloorArea).
			Msg("structured extraction pass complete")
	}

	return textPass, structuredPass, nil
}

// textFindings renders the verification pass as compact JSON grounding
// context for the structured prompt.
func textFindings(t *TextPassResult) string {
	if t.ParseFailed {
		return `{"verification_unavailable": true}`
	}

	findings := struct {
		Lines        []string      `json:"all_text_lines"`
		Openings     []TextOpening `json:"openings_found"`
		Verification struct {
			Doors      int    `json:"total_doors_counted"`
			Windows    int    `json:"total_windows_counted"`
			OpenAreas  int    `json:"total_open_areas_counted"`
			Confidence string `json:"confidence_level"`
		} `json:"verification"`
	}{
		Lines:    t.Lines,
		Openings: t.Openings,
	}
	findings.Verification.Doors = t.DoorCount
	findings.Verification.Windows = t.WindowCount
	findings.Verification.OpenAreas = t.OpenAreaCount
	findings.Verification.Confidence = string(t.Confidence)

	out, err := json.Marshal(findings)
	if err != nil {
		return `{"verification_unavailable": true}`
	}
	return string(out)
}
