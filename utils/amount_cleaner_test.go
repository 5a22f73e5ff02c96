package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMonetaryValue(t *testing.T) {
	assert.Equal(t, "$1020", CleanMonetaryValue("$1O2O"))
	assert.Equal(t, "S1,902.05", CleanMonetaryValue("S1,9O2.O5"))
	assert.Equal(t, "₹500", CleanMonetaryValue("₹5OO"))
	assert.Equal(t, "€1,211.80", CleanMonetaryValue("€l,2ll.8O"))
	assert.Equal(t, "$00112998", CleanMonetaryValue("$OolIZgq8"))
}

func TestCleanMonetaryValueKeepsFirstCharacter(t *testing.T) {
	assert.Equal(t, "O12", CleanMonetaryValue("O12"))
	assert.Equal(t, "l50.00", CleanMonetaryValue("l5O.OO"))
	assert.Equal(t, "5", CleanMonetaryValue("5"))
}

func TestCleanMonetaryValueLeavesCleanInputAlone(t *testing.T) {
	assert.Equal(t, "$1,902.05", CleanMonetaryValue("$1,902.05"))
	assert.Equal(t, "INR 450", CleanMonetaryValue("INR 450"))
	assert.Equal(t, "100%", CleanMonetaryValue("100%"))
}
