package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invoice-processor/dto"
)

func frag(text string, left, top, right, bottom float64) dto.Fragment {
	return dto.Fragment{
		Text: text,
		Box: dto.Quad{
			{X: left, Y: top},
			{X: right, Y: top},
			{X: right, Y: bottom},
			{X: left, Y: bottom},
		},
	}
}

func TestExtractFromFragmentsPairsLabelOnSameRow(t *testing.T) {
	fragments := []dto.Fragment{
		frag("Total:", 10, 100, 80, 120),
		frag("S1,9O2.O5", 200, 100, 320, 120),
	}

	records := NewAmountExtractor().ExtractFromFragments(fragments)

	assert.Equal(t, 1, len(records))
	assert.Equal(t, "S1,902.05", records[0].Amount)
	assert.Equal(t, "Total:", records[0].Context)
}

func TestExtractFromFragmentsNearestLabelWins(t *testing.T) {
	fragments := []dto.Fragment{
		frag("Subtotal", 10, 100, 80, 120),
		frag("Tax", 100, 100, 150, 120),
		frag("$45.00", 200, 100, 260, 120),
	}

	records := NewAmountExtractor().ExtractFromFragments(fragments)

	assert.Equal(t, 1, len(records))
	assert.Equal(t, "Tax", records[0].Context)
}

func TestExtractFromFragmentsRowThresholdIsStrict(t *testing.T) {
	extractor := NewAmountExtractor()

	// Centers 20 apart: not the same row.
	records := extractor.ExtractFromFragments([]dto.Fragment{
		frag("Due", 10, 120, 80, 140),
		frag("$100", 200, 100, 260, 120),
	})
	assert.Equal(t, dto.ContextUnknown, records[0].Context)

	// Centers 19.98 apart: same row.
	records = extractor.ExtractFromFragments([]dto.Fragment{
		frag("Due", 10, 119.98, 80, 139.98),
		frag("$100", 200, 100, 260, 120),
	})
	assert.Equal(t, "Due", records[0].Context)
}

func TestExtractFromFragmentsLabelMustEndLeftOfAmount(t *testing.T) {
	extractor := NewAmountExtractor()

	// Label right edge touching the amount left edge does not qualify.
	records := extractor.ExtractFromFragments([]dto.Fragment{
		frag("Due", 10, 100, 200, 120),
		frag("$100", 200, 100, 260, 120),
	})
	assert.Equal(t, dto.ContextUnknown, records[0].Context)

	// Label entirely to the right does not qualify.
	records = extractor.ExtractFromFragments([]dto.Fragment{
		frag("Due", 300, 100, 360, 120),
		frag("$100", 200, 100, 260, 120),
	})
	assert.Equal(t, dto.ContextUnknown, records[0].Context)
}

func TestExtractFromFragmentsTieKeepsEarlierLabel(t *testing.T) {
	fragments := []dto.Fragment{
		frag("Billed", 20, 100, 100, 120),
		frag("Charged", 30, 102, 100, 122),
		frag("$100", 200, 100, 260, 120),
	}

	records := NewAmountExtractor().ExtractFromFragments(fragments)

	assert.Equal(t, "Billed", records[0].Context)
}

func TestExtractFromFragmentsKeepsAmountOrder(t *testing.T) {
	fragments := []dto.Fragment{
		frag("Total", 10, 100, 80, 120),
		frag("₹1200", 200, 100, 260, 120),
		frag("Paid", 10, 200, 80, 220),
		frag("₹1000", 200, 200, 260, 220),
		frag("Due", 10, 300, 80, 320),
		frag("₹200", 200, 300, 260, 320),
	}

	records := NewAmountExtractor().ExtractFromFragments(fragments)

	assert.Equal(t, 3, len(records))
	assert.Equal(t, "₹1200", records[0].Amount)
	assert.Equal(t, "Total", records[0].Context)
	assert.Equal(t, "₹1000", records[1].Amount)
	assert.Equal(t, "Paid", records[1].Context)
	assert.Equal(t, "₹200", records[2].Amount)
	assert.Equal(t, "Due", records[2].Context)
}

func TestExtractFromFragmentsClassification(t *testing.T) {
	assert.True(t, fragmentAmountPattern.MatchString("$1,902.05"))
	assert.True(t, fragmentAmountPattern.MatchString("S745.OO"))
	assert.True(t, fragmentAmountPattern.MatchString("₹ 1200"))
	assert.True(t, fragmentAmountPattern.MatchString("INR 450"))
	assert.True(t, fragmentAmountPattern.MatchString("1200"))
	assert.False(t, fragmentAmountPattern.MatchString("Total:"))
	assert.False(t, fragmentAmountPattern.MatchString("Invoice #42"))
	assert.False(t, fragmentAmountPattern.MatchString("$100 due"))
	assert.False(t, fragmentAmountPattern.MatchString(""))
}

func TestExtractFromFragmentsEmptyInput(t *testing.T) {
	records := NewAmountExtractor().ExtractFromFragments(nil)

	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestExtractFromFragmentsDeterministic(t *testing.T) {
	fragments := []dto.Fragment{
		frag("Amount", 10, 100, 90, 120),
		frag("Due", 100, 101, 140, 121),
		frag("$98.76", 200, 100, 260, 120),
		frag("$12.34", 200, 200, 260, 220),
	}

	extractor := NewAmountExtractor()
	first := extractor.ExtractFromFragments(fragments)
	second := extractor.ExtractFromFragments(fragments)

	assert.Equal(t, first, second)
}

func TestExtractFromText(t *testing.T) {
	text := "The total for the Full Check Up was S745.00. The final invoice TOTAL is S1,902.05."

	records := NewAmountExtractor().ExtractFromText(text)

	assert.Equal(t, 2, len(records))
	assert.Equal(t, "S745.00", records[0].Amount)
	assert.Equal(t, "Up was", records[0].Context)
	assert.Equal(t, "S1,902.05", records[1].Amount)
	assert.Equal(t, "TOTAL is", records[1].Context)
}

func TestExtractFromTextWindowClampsAtStart(t *testing.T) {
	records := NewAmountExtractor().ExtractFromText("Fee $50")

	assert.Equal(t, 1, len(records))
	assert.Equal(t, "$50", records[0].Amount)
	assert.Equal(t, "Fee", records[0].Context)
}

func TestExtractFromTextAmountAtStartHasUnknownContext(t *testing.T) {
	records := NewAmountExtractor().ExtractFromText("$100 due on receipt")

	assert.Equal(t, 1, len(records))
	assert.Equal(t, "$100", records[0].Amount)
	assert.Equal(t, dto.ContextUnknown, records[0].Context)
}

func TestExtractFromTextBareNumbersAndPercents(t *testing.T) {
	records := NewAmountExtractor().ExtractFromText("GST applied at 18% on a base of 1,000.")

	assert.Equal(t, 2, len(records))
	assert.Equal(t, "18%", records[0].Amount)
	assert.Equal(t, "applied at", records[0].Context)
	assert.Equal(t, "1,000", records[1].Amount)
	assert.Equal(t, "base of", records[1].Context)
}

func TestExtractFromTextNoAmounts(t *testing.T) {
	records := NewAmountExtractor().ExtractFromText("No charges apply to this account.")

	assert.NotNil(t, records)
	assert.Empty(t, records)
}
