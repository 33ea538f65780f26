// Package currency provides monetary formatting for loan tapes and reports.
// All monetary amounts are carried as decimal.Decimal to avoid floating-point errors.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	INR Currency = "INR" // Indian Rupee
	USD Currency = "USD" // US Dollar
)

// DefaultCurrency is the currency of every generated loan tape.
const DefaultCurrency = INR

// Grouping selects how integer digits are separated.
type Grouping int

const (
	// GroupThousands separates every three digits (1,234,567).
	GroupThousands Grouping = iota
	// GroupIndian separates the last three digits, then every two (12,34,567).
	GroupIndian
)

// CurrencyInfo contains metadata about a currency.
type CurrencyInfo struct {
	Code          Currency
	Name          string
	Symbol        string
	DecimalPlaces int
	Grouping      Grouping
}

var currencies = map[Currency]CurrencyInfo{
	INR: {Code: INR, Name: "Indian Rupee", Symbol: "₹", DecimalPlaces: 0, Grouping: GroupIndian},
	USD: {Code: USD, Name: "US Dollar", Symbol: "$", DecimalPlaces: 2, Grouping: GroupThousands},
}

// IsValid checks if a currency code is supported.
func IsValid(code string) bool {
	_, ok := currencies[Currency(code)]
	return ok
}

// GetInfo returns metadata for a currency code.
func GetInfo(code Currency) (CurrencyInfo, bool) {
	info, ok := currencies[code]
	return info, ok
}

// FormatGrouped renders amount with the currency's digit grouping and decimal places
// but without a symbol, e.g. 62500000000 INR -> "62,50,00,00,000".
func FormatGrouped(amount decimal.Decimal, curr Currency) string {
	info, ok := GetInfo(curr)
	if !ok {
		info = currencies[DefaultCurrency]
	}

	fixed := amount.Round(int32(info.DecimalPlaces)).StringFixed(int32(info.DecimalPlaces))

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	grouped := groupDigits(intPart, info.Grouping)
	if fracPart != "" {
		return sign + grouped + "." + fracPart
	}
	return sign + grouped
}

// Format renders amount with symbol and grouping, e.g. "₹2,50,000".
func Format(amount decimal.Decimal, curr Currency) string {
	info, ok := GetInfo(curr)
	if !ok {
		return fmt.Sprintf("%s %s", amount.StringFixed(2), curr)
	}
	grouped := FormatGrouped(amount, curr)
	if strings.HasPrefix(grouped, "-") {
		return "-" + info.Symbol + grouped[1:]
	}
	return info.Symbol + grouped
}

// FormatCrore renders amount in crores (1 Cr = 10,000,000) with one decimal, e.g. "625.0 Cr".
func FormatCrore(amount decimal.Decimal) string {
	return amount.Div(decimal.NewFromInt(10_000_000)).StringFixed(1) + " Cr"
}

func groupDigits(digits string, g Grouping) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	step := 3
	if g == GroupIndian {
		step = 2
	}

	var parts []string
	for len(head) > step {
		parts = append([]string{head[len(head)-step:]}, parts...)
		head = head[:len(head)-step]
	}
	parts = append([]string{head}, parts...)
	parts = append(parts, tail)
	return strings.Join(parts, ",")
}
