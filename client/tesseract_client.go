package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	log "github.com/sirupsen/logrus"

	"invoice-processor/dto"
)

// TesseractClient runs the local Tesseract engine. It is the fallback
// recognition engine for when the PaddleOCR endpoint is unreachable.
type TesseractClient struct {
	dataPath string
}

func NewTesseractClient(dataPath string) *TesseractClient {
	return &TesseractClient{
		dataPath: dataPath,
	}
}

// Recognize runs word-level OCR on the image and returns one fragment
// per recognized word, in reading order. Tesseract reports axis-aligned
// rectangles; each is expanded to the quad layout the matcher expects.
func (tc *TesseractClient) Recognize(ctx context.Context, imageData []byte) ([]dto.Fragment, error) {
	client := gosseract.NewClient()
	defer client.Close()

	client.SetTessdataPrefix(tc.dataPath)

	if err := client.SetLanguage("eng"); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to read word boxes: %w", err)
	}

	fragments := make([]dto.Fragment, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		r := box.Box
		fragments = append(fragments, dto.Fragment{
			Box: dto.Quad{
				{X: float64(r.Min.X), Y: float64(r.Min.Y)},
				{X: float64(r.Max.X), Y: float64(r.Min.Y)},
				{X: float64(r.Max.X), Y: float64(r.Max.Y)},
				{X: float64(r.Min.X), Y: float64(r.Max.Y)},
			},
			Text:       word,
			Confidence: box.Confidence,
		})
	}

	log.Printf("Tesseract recognized %d fragments", len(fragments))
	return fragments, nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	log.Println("Tesseract client closed")
}
