package utils

import (
	"strings"
	"unicode/utf8"
)

// digitCorrections lists the characters recognition engines commonly
// emit in place of digits, with the digit each one stands for. The
// pairs are disjoint, so applying them in order is deterministic.
var digitCorrections = []struct {
	Noisy string
	Digit string
}{
	{"O", "0"},
	{"o", "0"},
	{"l", "1"},
	{"I", "1"},
	{"Z", "2"},
	{"g", "9"},
	{"q", "9"},
	{"B", "8"},
}

// CleanMonetaryValue corrects common recognition errors in a string
// that represents a monetary amount. The first rune is assumed to be
// the currency marker and is never altered, even when it is itself a
// confusable character. Callers must pass a non-empty value.
func CleanMonetaryValue(value string) string {
	_, size := utf8.DecodeRuneInString(value)
	symbol := value[:size]
	numericPart := value[size:]

	for _, c := range digitCorrections {
		numericPart = strings.ReplaceAll(numericPart, c.Noisy, c.Digit)
	}

	return symbol + numericPart
}
