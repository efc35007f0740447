package domain

import (
	"encoding/json"
	"io"
	"os"
)

// Serialization of measurement records at the pipeline boundary. The format
// is sparse: zero and default fields are omitted, so omission means "unset"
// rather than "zero". Import applies defaults for absent keys.

// ExportJSON writes the record to w in the sparse boundary format.
func (r *MeasurementRecord) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return IOError("failed to encode measurement record", err)
	}
	return nil
}

// ImportJSON reads a record from r and applies defaults for absent keys:
// a missing ID gets a fresh one, a missing confidence defaults to medium,
// and aggregate counts are rebuilt from the opening instances.
func ImportJSON(rd io.Reader) (*MeasurementRecord, error) {
	var rec MeasurementRecord
	dec := json.NewDecoder(rd)
	if err := dec.Decode(&rec); err != nil {
		return nil, ParseError("failed to decode measurement record", err)
	}
	rec.applyDefaults()
	return &rec, nil
}

// WriteFile exports the record to a file path.
func (r *MeasurementRecord) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return IOError("failed to create record file", err)
	}
	defer f.Close()
	return r.ExportJSON(f)
}

// ReadRecordFile imports a record from a file path.
func ReadRecordFile(path string) (*MeasurementRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, IOError("failed to open record file", err)
	}
	defer f.Close()
	return ImportJSON(f)
}

func (r *MeasurementRecord) applyDefaults() {
	if r.Confidence == "" {
		r.Confidence = ConfidenceMedium
	}
	for i := range r.Inventory.Openings {
		if r.Inventory.Openings[i].Source == "" {
			r.Inventory.Openings[i].Source = SourceStructuredPass
		}
	}
	r.Inventory.Recount()
}
