package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"invoice-processor/dto"
)

// ParseUPIPayload parses a upi://pay deep link decoded from a payment
// QR. The amount, when present, must parse as a decimal number and
// keeps the scale it was entered with, so paise digits survive.
func ParseUPIPayload(raw string) (*dto.PaymentQR, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid payment URI: %w", err)
	}
	if !strings.EqualFold(u.Scheme, "upi") {
		return nil, fmt.Errorf("not a UPI payment URI: scheme %q", u.Scheme)
	}

	params := u.Query()
	payee := params.Get("pa")
	if payee == "" {
		return nil, fmt.Errorf("payment URI has no payee address")
	}

	qr := &dto.PaymentQR{
		Payee:     payee,
		PayeeName: params.Get("pn"),
		Currency:  params.Get("cu"),
		Note:      params.Get("tn"),
		Raw:       raw,
	}

	if am := params.Get("am"); am != "" {
		value, err := decimal.NewFromString(strings.ReplaceAll(am, ",", ""))
		if err != nil {
			return nil, fmt.Errorf("payment URI has malformed amount %q: %w", am, err)
		}
		qr.Amount = value.StringFixed(-value.Exponent())
	}

	return qr, nil
}
