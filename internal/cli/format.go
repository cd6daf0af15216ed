package cli

import "github.com/shopspring/decimal"

// Money renders an amount the way every view shows it.
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
