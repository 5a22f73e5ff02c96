package utils

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"invoice-processor/dto"
)

// Defaults for the matcher tunables.
const (
	DefaultRowThreshold = 20.0
	DefaultWindowSize   = 30
	DefaultContextWords = 2
)

// currencyMarkers are the symbols and codes accepted at the start of a
// monetary amount. "S" is included because low quality scans routinely
// render "$" as "S".
var currencyMarkers = []string{"$", "S", "€", "£", "₹", "INR", "USD", "EUR", "GBP"}

var (
	// fragmentAmountPattern classifies a whole recognized fragment as an
	// amount: an optional marker, at most one blank, then a run over the
	// noisy digit alphabet.
	fragmentAmountPattern = regexp.MustCompile(`^(?:(?:` + markerAlternation() + `)\s?)?[` + noisyDigitClass() + `]+$`)

	// textAmountPattern finds amounts inside running text: an optional
	// marker, a comma-grouped digit run, up to two decimals, an optional
	// percent sign.
	textAmountPattern = regexp.MustCompile(`(?:(?:` + markerAlternation() + `)\s?)?[\d,]+(?:\.\d{1,2})?%?`)
)

func markerAlternation() string {
	quoted := make([]string, len(currencyMarkers))
	for i, m := range currencyMarkers {
		quoted[i] = regexp.QuoteMeta(m)
	}
	return strings.Join(quoted, "|")
}

// noisyDigitClass assembles the character class a recognized digit run
// may contain: digits, grouping punctuation, the "S" glyph and every
// correction-table key.
func noisyDigitClass() string {
	var b strings.Builder
	b.WriteString(`\d,.S`)
	for _, c := range digitCorrections {
		b.WriteString(c.Noisy)
	}
	return b.String()
}

// AmountExtractor matches recognized invoice content to contextual
// amount records. Both matchers are pure: same input, same output.
type AmountExtractor struct {
	// RowThreshold is the strict upper bound on the vertical center
	// distance for two fragments to count as sharing a row.
	RowThreshold float64
	// WindowSize is how many characters of look-back the sequential
	// matcher reads for context.
	WindowSize int
	// ContextWords is how many trailing words of the window become the
	// context label.
	ContextWords int
}

func NewAmountExtractor() *AmountExtractor {
	return &AmountExtractor{
		RowThreshold: DefaultRowThreshold,
		WindowSize:   DefaultWindowSize,
		ContextWords: DefaultContextWords,
	}
}

// ExtractFromFragments pairs every amount-shaped fragment with the
// nearest label fragment to its left on the same visual row. Amounts
// keep their input order; an amount with no qualifying label gets the
// Unknown context. Ties on distance go to the earlier fragment.
func (e *AmountExtractor) ExtractFromFragments(fragments []dto.Fragment) []dto.ContextualAmount {
	var amountFragments, otherFragments []dto.Fragment
	for _, f := range fragments {
		if fragmentAmountPattern.MatchString(f.Text) {
			amountFragments = append(amountFragments, f)
		} else {
			otherFragments = append(otherFragments, f)
		}
	}

	records := make([]dto.ContextualAmount, 0, len(amountFragments))
	for _, amount := range amountFragments {
		ayCenter := amount.Box.VerticalCenter()
		axLeft := amount.Box.Left()

		bestCandidate := ""
		minDistance := math.Inf(1)

		for _, other := range otherFragments {
			oyCenter := other.Box.VerticalCenter()
			oxRight := other.Box.Right()
			if math.Abs(ayCenter-oyCenter) < e.RowThreshold && oxRight < axLeft {
				if distance := axLeft - oxRight; distance < minDistance {
					minDistance = distance
					bestCandidate = other.Text
				}
			}
		}

		if bestCandidate == "" {
			bestCandidate = dto.ContextUnknown
		}

		records = append(records, dto.ContextualAmount{
			Amount:  CleanMonetaryValue(amount.Text),
			Context: bestCandidate,
		})
	}

	return records
}

// ExtractFromText scans running text left to right for amounts and
// labels each one with the last words of the window immediately before
// it. The window clamps at the start of the text; an empty window
// yields the Unknown context.
func (e *AmountExtractor) ExtractFromText(text string) []dto.ContextualAmount {
	matches := textAmountPattern.FindAllStringIndex(text, -1)

	records := make([]dto.ContextualAmount, 0, len(matches))
	for _, m := range matches {
		start := m[0]

		windowStart := start - e.WindowSize
		if windowStart < 0 {
			windowStart = 0
		}
		// Back off to a rune boundary so a multibyte marker split by the
		// window edge cannot leak partial bytes into the context.
		for windowStart > 0 && !utf8.RuneStart(text[windowStart]) {
			windowStart--
		}

		context := dto.ContextUnknown
		if words := strings.Fields(text[windowStart:start]); len(words) > 0 {
			if len(words) > e.ContextWords {
				words = words[len(words)-e.ContextWords:]
			}
			context = strings.Join(words, " ")
		}

		records = append(records, dto.ContextualAmount{
			Amount:  CleanMonetaryValue(text[m[0]:m[1]]),
			Context: context,
		})
	}

	return records
}
