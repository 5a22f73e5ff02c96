package dto

import "errors"

// TextRequest is the body of POST /invoice/process-text.
type TextRequest struct {
	Text string `json:"text" binding:"required"`
}

// Validate performs basic validation on the request
func (r *TextRequest) Validate() error {
	if r.Text == "" {
		return errors.New("text is required")
	}
	return nil
}
