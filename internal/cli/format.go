package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"optionlab/internal/models"
)

// IndianRupee switches currency formatting to lakh/crore grouping.
const IndianRupee = "₹"

// FormatCurrency formats amount with two decimals and thousands separators.
// Rupee amounts use the Indian numbering system (1,00,000), anything else
// groups by three.
func FormatCurrency(amount float64, symbol string) string {
	d := decimal.NewFromFloat(amount).Round(2)
	negative := d.IsNegative()

	parts := strings.SplitN(d.Abs().StringFixed(2), ".", 2)
	intPart, decPart := parts[0], parts[1]

	var grouped string
	if symbol == IndianRupee {
		grouped = formatIndianNumber(intPart)
	} else {
		grouped = formatWesternNumber(intPart)
	}

	result := symbol + grouped + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatIndianCurrency formats a number in Indian currency format (lakhs, crores).
func FormatIndianCurrency(amount float64) string {
	return FormatCurrency(amount, IndianRupee)
}

// formatIndianNumber formats an integer string in Indian numbering system.
// Indian system: 1,00,00,000 (1 crore) vs Western: 10,000,000
func formatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	// First group of 3 from right (hundreds)
	result := s[n-3:]
	s = s[:n-3]

	// Then groups of 2 (thousands, lakhs, crores)
	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return result
}

func formatWesternNumber(s string) string {
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

// FormatPnL formats P&L with sign.
func FormatPnL(pnl float64, symbol string) string {
	formatted := FormatCurrency(pnl, symbol)
	if decimal.NewFromFloat(pnl).Round(2).IsPositive() {
		return "+" + formatted
	}
	return formatted
}

// FormatBound formats a max profit/loss figure.
func FormatBound(b models.Bound, symbol string) string {
	if b.Unbounded {
		return "Unlimited"
	}
	return FormatCurrency(b.Value, symbol)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPrice formats an underlying price.
func FormatPrice(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(2)
}

// FormatPrices joins prices for display, or returns "none".
func FormatPrices(prices []float64) string {
	if len(prices) == 0 {
		return "none"
	}
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = FormatPrice(p)
	}
	return strings.Join(parts, ", ")
}

// FormatLeg renders a leg for tables.
func FormatLeg(leg models.OptionLeg) string {
	if leg.Type == models.Stock {
		return fmt.Sprintf("%s %d×100 stock @ %s", strings.ToUpper(string(leg.Position)), leg.Quantity, FormatPrice(leg.Strike))
	}
	return fmt.Sprintf("%s %d %s %s @ %s", strings.ToUpper(string(leg.Position)), leg.Quantity,
		strings.ToUpper(string(leg.Type)), FormatPrice(leg.Strike), FormatPrice(leg.Premium))
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
