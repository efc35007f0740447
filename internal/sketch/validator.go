// Package sketch handles room sketch inputs: format detection, validation,
// and conversion of scanned PDF sketches to images the model gateway can
// consume.
package sketch

import (
	"bytes"
	"fmt"

	"github.com/roomworks/takeoff/internal/domain"
)

// Format identifies a sketch input format.
type Format string

const (
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpeg"
	FormatPDF     Format = "pdf"
	FormatUnknown Format = "unknown"
)

// maxInputSize caps sketch inputs at 25MB; anything larger is almost
// certainly not a room photo or sketch scan.
const maxInputSize = 25 * 1024 * 1024

// DetectFormat identifies the input format from its magic bytes.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return FormatJPEG
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return FormatPDF
	}
	return FormatUnknown
}

// Validate checks that the input is a usable sketch: non-empty, a supported
// format, and under the size cap.
func Validate(data []byte) (Format, error) {
	if len(data) == 0 {
		return FormatUnknown, domain.ValidationError("sketch input is empty", nil)
	}
	if len(data) > maxInputSize {
		return FormatUnknown, domain.ValidationError(
			fmt.Sprintf("sketch input is %d MB, maximum is %d MB", len(data)/(1024*1024), maxInputSize/(1024*1024)), nil)
	}

	format := DetectFormat(data)
	if format == FormatUnknown {
		return FormatUnknown, domain.ValidationError("sketch input is not a PNG, JPEG, or PDF", nil)
	}
	return format, nil
}

// ValidateQuality validates a JPEG quality parameter.
func ValidateQuality(quality int) error {
	if quality < 1 || quality > 100 {
		return domain.ValidationError(fmt.Sprintf("quality must be between 1 and 100, got %d", quality), nil)
	}
	return nil
}
