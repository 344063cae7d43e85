package converter

import "fmt"

const priceMulti = 100

// FormatPrice converts integer cents from storage to the decimal amount
// used in API responses.
func FormatPrice(cents int) float64 {
	return float64(cents) / priceMulti
}

func ConvertPrice(price float64) int {
	return int(price * priceMulti)
}

// FormatPriceString renders cents as a "12.50" style decimal string, the
// format the payment provider expects for amounts.
func FormatPriceString(cents int) string {
	return fmt.Sprintf("%d.%02d", cents/priceMulti, cents%priceMulti)
}
