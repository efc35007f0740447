package sketch

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"

	"github.com/roomworks/takeoff/internal/domain"
)

// Converter renders scanned PDF sketches to JPEG images using go-fitz.
type Converter struct{}

// NewConverter creates a new PDF sketch converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert renders each page of a PDF to JPEG bytes at the given quality.
// Room sketches are normally one page; multi-page scans return one image
// per page.
func (c *Converter) Convert(ctx context.Context, pdfBytes []byte, quality int) ([][]byte, error) {
	if err := ValidateQuality(quality); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, domain.ConversionError("Failed to open PDF sketch", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ValidationError("PDF sketch has no pages", nil)
	}

	images := make([][]byte, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.Image(pageNum)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("Failed to render page %d", pageNum+1), err)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("Failed to encode page %d as JPG", pageNum+1), err)
		}
		images = append(images, buf.Bytes())
	}

	return images, nil
}
