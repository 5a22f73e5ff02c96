package dto

// ContextUnknown is the context assigned to an amount when no label
// fragment qualifies for it.
const ContextUnknown = "Unknown"

// Result status values returned to clients.
const (
	StatusOK             = "ok"
	StatusError          = "error"
	StatusNoAmountsFound = "no_amounts_found"
)

// Point is a single coordinate in image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad is the four-corner bounding box of a recognized fragment, in
// corner order: top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point

// Left returns the x coordinate of the top-left corner.
func (q Quad) Left() float64 {
	return q[0].X
}

// Right returns the x coordinate of the top-right corner.
func (q Quad) Right() float64 {
	return q[1].X
}

// VerticalCenter returns the mean of the top-left and bottom-right
// y coordinates. Fragments on the same visual row have close centers
// even when their boxes differ in height.
func (q Quad) VerticalCenter() float64 {
	return (q[0].Y + q[2].Y) / 2
}

// Fragment is one positioned piece of text produced by a recognition
// engine. Confidence is carried through for debugging but plays no
// part in matching.
type Fragment struct {
	Box        Quad    `json:"box"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ContextualAmount pairs a recognized monetary amount with the label
// text found near it.
type ContextualAmount struct {
	Amount  string `json:"amount"`
	Context string `json:"context"`
}

// PaymentQR holds the fields of a UPI payment QR found on an invoice.
type PaymentQR struct {
	Payee     string `json:"payee"`
	PayeeName string `json:"payee_name,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Note      string `json:"note,omitempty"`
	Raw       string `json:"raw"`
}

// ImageExtraction is the full result of running extraction over a
// raster or PDF invoice: the contextual amounts plus any payment QR
// found alongside them.
type ImageExtraction struct {
	Records   []ContextualAmount `json:"records"`
	PaymentQR *PaymentQR         `json:"payment_qr,omitempty"`
}
