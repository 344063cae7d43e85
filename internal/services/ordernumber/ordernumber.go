package ordernumber

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

const numberLength = 12

// New generates an order number: random digits ending in a Luhn check
// digit, so support tooling can checksum-validate hand-entered numbers.
func New() string {
	return goluhn.Generate(numberLength)
}
