// Package takeoff is the public entry point for the room takeoff library.
// It wires sketch validation, the vision model gateway, the two extraction
// passes, reconciliation, and quantity computation behind a single client.
package takeoff

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/roomworks/takeoff/internal/config"
	"github.com/roomworks/takeoff/internal/domain"
	"github.com/roomworks/takeoff/internal/extract"
	"github.com/roomworks/takeoff/internal/geometry"
	"github.com/roomworks/takeoff/internal/llm"
	"github.com/roomworks/takeoff/internal/observability"
	"github.com/roomworks/takeoff/internal/quantity"
	"github.com/roomworks/takeoff/internal/reconcile"
	"github.com/roomworks/takeoff/internal/sketch"
)

// Re-export result types for the public API.
type (
	Record    = domain.MeasurementRecord
	Inventory = domain.OpeningInventory
	Opening   = domain.Opening
	WorkScope = domain.WorkScope
	LineItem  = quantity.LineItem
	NetValues = geometry.Net
)

// RoomInput describes one room sketch to analyze. Image may be a PNG, a
// JPEG, or a scanned PDF; PDFs are rendered to JPEG before extraction and
// only the first page is analyzed.
type RoomInput struct {
	Name  string
	Type  string
	Image []byte
}

// Client is the main entry point for the room takeoff library.
type Client struct {
	cfg       *config.Config
	service   *extract.Service
	converter *sketch.Converter
	log       zerolog.Logger
}

// NewClient creates a client from the environment. A .env file is honored
// when present; OPENROUTER_API_KEY is required.
func NewClient() (*Client, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(cfg *config.Config) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, domain.ConfigError("API key is required", nil)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = config.Default().Concurrency
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = config.Default().JPEGQuality
	}

	log := observability.NewLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	gateway := llm.NewClient(cfg.APIKey, cfg.Model)

	return &Client{
		cfg:       cfg,
		service:   extract.NewService(gateway, log),
		converter: sketch.NewConverter(),
		log:       log,
	}, nil
}

// Analyze runs the full pipeline for one room sketch and returns its
// measurement record. Transport failures surface as errors; unparseable
// model replies come back as a failed record flagged for manual input.
func (c *Client) Analyze(ctx context.Context, input RoomInput) (*Record, error) {
	image, err := c.prepareImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	textPass, structuredPass, err := c.service.Extract(ctx, image, input.Name, input.Type)
	if err != nil {
		return nil, err
	}

	rec := reconcile.Reconcile(textPass, structuredPass)
	if rec.RoomName == "" {
		rec.RoomName = input.Name
	}
	if rec.RoomType == "" {
		rec.RoomType = input.Type
	}

	if rec.Confidence != domain.ConfidenceFailed {
		if problems := domain.ValidateGeometry(rec.Gross, structuredPass.Length, structuredPass.Width); len(problems) > 0 {
			rec.RequiresManualInput = true
			for _, p := range problems {
				rec.AnalysisNotes = appendNote(rec.AnalysisNotes, p)
			}
		}
	}

	c.log.Info().
		Str("room", rec.RoomName).
		Str("confidence", string(rec.Confidence)).
		Bool("manual_input", rec.RequiresManualInput).
		Float64("floor_area", rec.Gross.FloorArea).
		Msg("room analysis complete")

	return rec, nil
}

// AnalyzeBatch analyzes several room sketches concurrently, bounded by the
// configured concurrency limit. Results keep input order. The first
// transport failure cancels the remaining rooms.
func (c *Client) AnalyzeBatch(ctx context.Context, inputs []RoomInput) ([]*Record, error) {
	records := make([]*Record, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			rec, err := c.Analyze(ctx, input)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// Quantities derives net geometry from a measurement record and computes
// the material takeoff for the selected work scope using the configured
// waste factors.
func (c *Client) Quantities(rec *Record, scope WorkScope) (NetValues, []LineItem) {
	net := geometry.Derive(rec.Gross, rec.Inventory)
	return net, quantity.Compute(net, rec.Gross, scope, c.cfg.Factors)
}

// prepareImage validates the sketch bytes and renders PDFs to JPEG. PNG
// and JPEG inputs pass through unchanged.
func (c *Client) prepareImage(ctx context.Context, data []byte) ([]byte, error) {
	format, err := sketch.Validate(data)
	if err != nil {
		return nil, err
	}

	if format != sketch.FormatPDF {
		return data, nil
	}

	pages, err := c.converter.Convert(ctx, data, c.cfg.JPEGQuality)
	if err != nil {
		return nil, err
	}
	if len(pages) > 1 {
		c.log.Warn().Int("pages", len(pages)).Msg("multi-page sketch, analyzing first page only")
	}
	return pages[0], nil
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "; " + note
}
