package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	log "github.com/sirupsen/logrus"

	"invoice-processor/dto"
	"invoice-processor/utils"
)

// Recognizer turns raw image bytes into positioned text fragments.
// Implementations are external engines the service treats as black
// boxes.
type Recognizer interface {
	Recognize(ctx context.Context, imageData []byte) ([]dto.Fragment, error)
}

// ExtractionService orchestrates invoice ingestion: decoding the
// upload, running recognition, and matching amounts to their labels.
// Image and text inputs take fully separate paths.
type ExtractionService struct {
	primary   Recognizer
	fallback  Recognizer
	pdf       PDFProcessor
	extractor *utils.AmountExtractor
}

func NewExtractionService(primary, fallback Recognizer, pdf PDFProcessor, extractor *utils.AmountExtractor) *ExtractionService {
	return &ExtractionService{
		primary:   primary,
		fallback:  fallback,
		pdf:       pdf,
		extractor: extractor,
	}
}

// ExtractFromText runs the sequential matcher over raw invoice text.
func (s *ExtractionService) ExtractFromText(text string) []dto.ContextualAmount {
	return s.extractor.ExtractFromText(text)
}

// ExtractFromImage ingests an uploaded invoice (PDF or raster image)
// and returns its contextual amounts plus any payment QR on the page.
func (s *ExtractionService) ExtractFromImage(ctx context.Context, fileData []byte, mimeType, password string) (*dto.ImageExtraction, error) {
	if strings.Contains(mimeType, "pdf") {
		return s.extractFromPDF(ctx, fileData, password)
	}

	fragments, err := s.recognize(ctx, fileData)
	if err != nil {
		return nil, err
	}

	result := &dto.ImageExtraction{
		Records: s.extractor.ExtractFromFragments(fragments),
	}

	if img, err := decodeImage(fileData, mimeType); err != nil {
		log.Printf("image decode for QR detection failed: %v", err)
	} else {
		result.PaymentQR = s.detectPaymentQR(img)
	}

	return result, nil
}

// extractFromPDF prefers the embedded text layer. Scanned PDFs fall
// back to per-page recognition; pages are matched independently so
// fragments never pair across page boundaries.
func (s *ExtractionService) extractFromPDF(ctx context.Context, pdfData []byte, password string) (*dto.ImageExtraction, error) {
	text, err := s.pdf.ExtractText(pdfData, password)
	if err != nil {
		log.Printf("PDF text extraction failed: %v", err)
	}

	if looksLikeInvoiceText(text) {
		return &dto.ImageExtraction{Records: s.extractor.ExtractFromText(text)}, nil
	}

	log.Println("PDF has no usable text layer, falling back to page images")
	pages, imgErr := s.pdf.ExtractImages(pdfData, password)
	if imgErr != nil || len(pages) == 0 {
		// Last resort: a thin text layer beats nothing at all.
		if strings.TrimSpace(text) != "" {
			log.Printf("PDF page extraction failed (%v), using the thin text layer", imgErr)
			return &dto.ImageExtraction{Records: s.extractor.ExtractFromText(text)}, nil
		}
		if imgErr != nil {
			return nil, fmt.Errorf("failed to extract images from PDF: %w", imgErr)
		}
		return nil, fmt.Errorf("no pages could be extracted from PDF")
	}

	result := &dto.ImageExtraction{Records: []dto.ContextualAmount{}}
	for i, page := range pages {
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, page); err != nil {
			log.Printf("failed to encode page %d: %v", i+1, err)
			continue
		}

		fragments, err := s.recognize(ctx, buf.Bytes())
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, s.extractor.ExtractFromFragments(fragments)...)

		if result.PaymentQR == nil {
			result.PaymentQR = s.detectPaymentQR(page)
		}
	}

	return result, nil
}

// recognize runs the primary engine and falls back to the local one.
// Both failing means no recognition capability is available.
func (s *ExtractionService) recognize(ctx context.Context, imageData []byte) ([]dto.Fragment, error) {
	fragments, err := s.primary.Recognize(ctx, imageData)
	if err == nil {
		return fragments, nil
	}
	log.Printf("primary recognition failed: %v, falling back", err)

	fragments, fbErr := s.fallback.Recognize(ctx, imageData)
	if fbErr != nil {
		return nil, fmt.Errorf("%w: primary: %v, fallback: %v", dto.ErrRecognizerUnavailable, err, fbErr)
	}
	return fragments, nil
}

// detectPaymentQR scans the image for a QR code carrying a UPI payment
// URI. Invoices without one are the normal case, so failures here are
// silent.
func (s *ExtractionService) detectPaymentQR(img image.Image) *dto.PaymentQR {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		log.Debugf("QR bitmap conversion failed: %v", err)
		return nil
	}

	qrReader := qrcode.NewQRCodeReader()
	decoded, err := qrReader.Decode(bmp, nil)
	if err != nil {
		log.Debugf("no QR code found: %v", err)
		return nil
	}

	qr, err := utils.ParseUPIPayload(decoded.GetText())
	if err != nil {
		log.Printf("QR code found but not a payment URI: %v", err)
		return nil
	}

	log.Printf("payment QR found for payee %s", qr.Payee)
	return qr
}

// decodeImage decodes an image from bytes based on MIME type
func decodeImage(data []byte, mimeType string) (image.Image, error) {
	reader := bytes.NewReader(data)

	if strings.Contains(mimeType, "png") {
		return png.Decode(reader)
	} else if strings.Contains(mimeType, "jpeg") || strings.Contains(mimeType, "jpg") {
		return jpeg.Decode(reader)
	}

	// Try to decode anyway
	img, _, err := image.Decode(reader)
	return img, err
}

// invoiceKeywords separate a real invoice text layer from the garbage
// short strings broken extractions produce.
var invoiceKeywords = []string{
	"invoice", "total", "amount", "tax", "gst", "due",
	"balance", "payment", "subtotal", "bill",
}

func looksLikeInvoiceText(text string) bool {
	return evaluateTextQuality(text) >= 50
}

// evaluateTextQuality scores extracted text from 0-100 based on text
// length and keyword presence.
func evaluateTextQuality(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0.0
	}

	score := 0.0

	// Length score (max 40 points)
	textLen := len(trimmed)
	if textLen > 500 {
		score += 40.0
	} else if textLen > 100 {
		score += 20.0
	} else if textLen > 20 {
		score += 10.0
	}

	// Keyword presence score (max 60 points)
	textLower := strings.ToLower(text)
	keywordCount := 0
	for _, keyword := range invoiceKeywords {
		if strings.Contains(textLower, keyword) {
			keywordCount++
		}
	}
	score += float64(keywordCount) * 6.0

	if score > 100.0 {
		score = 100.0
	}

	return score
}
