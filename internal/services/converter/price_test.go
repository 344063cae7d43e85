package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, 12.5, FormatPrice(1250))
	assert.Equal(t, 0.0, FormatPrice(0))
	assert.Equal(t, 0.09, FormatPrice(9))
}

func TestConvertPrice(t *testing.T) {
	assert.Equal(t, 1250, ConvertPrice(12.5))
	assert.Equal(t, 0, ConvertPrice(0))
}

func TestFormatPriceString(t *testing.T) {
	assert.Equal(t, "12.50", FormatPriceString(1250))
	assert.Equal(t, "0.09", FormatPriceString(9))
	assert.Equal(t, "100.00", FormatPriceString(10000))
}
