package ordernumber

import (
	"testing"

	"github.com/ShiraazMoollatjie/goluhn"
	"github.com/stretchr/testify/assert"
)

func TestNewGeneratesLuhnValidNumbers(t *testing.T) {
	for i := 0; i < 100; i++ {
		number := New()

		assert.Len(t, number, numberLength)
		assert.NoError(t, goluhn.Validate(number))
	}
}

func TestNewGeneratesDistinctNumbers(t *testing.T) {
	assert.NotEqual(t, New(), New())
}
