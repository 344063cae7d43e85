package validation

import (
	"fmt"

	"github.com/ShiraazMoollatjie/goluhn"
)

// LuhnValidate checks that an order number carries a valid Luhn check
// digit. Numbers are generated with the check digit appended, so anything
// failing here was mistyped or not issued by this shop.
func LuhnValidate(number string) error {
	if err := goluhn.Validate(number); err != nil {
		return fmt.Errorf("invalid order number: %w", err)
	}

	return nil
}

const (
	minRating = 1
	maxRating = 5
)

func RatingValidate(rating int) error {
	if rating < minRating || rating > maxRating {
		return fmt.Errorf("rating must be between %d and %d", minRating, maxRating)
	}

	return nil
}
