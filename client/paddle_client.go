package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"invoice-processor/dto"
)

// PaddleClient talks to a PaddleOCR serving endpoint over HTTP. It is
// the primary recognition engine: the hub API reports a text region
// for every fragment, which the geometric matcher needs.
type PaddleClient struct {
	apiURL     string
	httpClient *http.Client
}

// NewPaddleClient creates a new PaddleOCR client for the given
// endpoint, e.g. http://paddleocr:8866/predict/ocr_system.
func NewPaddleClient(apiURL string) *PaddleClient {
	return &PaddleClient{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Recognize sends the image to the PaddleOCR API and converts each
// detected text region into a positioned fragment, in reading order.
func (p *PaddleClient) Recognize(ctx context.Context, imageData []byte) ([]dto.Fragment, error) {
	payload := map[string]interface{}{
		"images": []string{base64.StdEncoding.EncodeToString(imageData)},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to build PaddleOCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call PaddleOCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("PaddleOCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results [][]struct {
			Text       string      `json:"text"`
			Confidence float64     `json:"confidence"`
			TextRegion [][]float64 `json:"text_region"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode PaddleOCR response: %w", err)
	}

	var fragments []dto.Fragment
	if len(result.Results) > 0 {
		for _, line := range result.Results[0] {
			quad, ok := quadFromRegion(line.TextRegion)
			if !ok {
				log.Printf("skipping fragment %q with malformed text region", line.Text)
				continue
			}
			fragments = append(fragments, dto.Fragment{
				Box:        quad,
				Text:       line.Text,
				Confidence: line.Confidence,
			})
		}
	}

	log.Printf("PaddleOCR recognized %d fragments", len(fragments))
	return fragments, nil
}

// quadFromRegion converts the API's corner list into a Quad. Anything
// other than four two-value corners is rejected.
func quadFromRegion(region [][]float64) (dto.Quad, bool) {
	var quad dto.Quad
	if len(region) != 4 {
		return quad, false
	}
	for i, corner := range region {
		if len(corner) != 2 {
			return quad, false
		}
		quad[i] = dto.Point{X: corner[0], Y: corner[1]}
	}
	return quad, true
}
