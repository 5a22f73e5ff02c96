package dto

import (
	"encoding/json"
	"errors"
)

// Collaborator errors. Handlers map these to 503.
var (
	ErrRecognizerUnavailable = errors.New("recognition engine unavailable")
	ErrLabelerUnavailable    = errors.New("labeling model unavailable")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// LabeledAmount is one labeled line item produced by the labeling
// model. Value stays a json.Number so whatever numeric form the model
// emitted survives re-encoding untouched.
type LabeledAmount struct {
	Type   string      `json:"type"`
	Value  json.Number `json:"value"`
	Source string      `json:"source"`
}

// LabeledResult is the labeling model's output as this service
// returns it. The model's labels are advisory and are never
// re-derived or validated here; absent keys stay absent. For the
// short-circuit and failure outcomes only Status/Reason/RawOutput
// are populated.
type LabeledResult struct {
	Currency  string          `json:"currency,omitempty"`
	Amounts   []LabeledAmount `json:"amounts,omitempty"`
	Status    string          `json:"status,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	RawOutput string          `json:"raw_output,omitempty"`
}

// InvoiceResponse is the final response structure for image and PDF
// invoices: the labeled result plus any payment QR found on the page.
type InvoiceResponse struct {
	LabeledResult
	PaymentQR *PaymentQR `json:"payment_qr,omitempty"`
}
