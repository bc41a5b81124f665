// Package core provides amount parsing and formatting utilities.
//
// Amounts are whole units of the local currency (VND); there is no minor
// unit, so parsing rejects fractional input instead of rounding it.
package core

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var vndPrinter = message.NewPrinter(language.Vietnamese)

// ParseAmount converts user input to a whole amount.
//
// Dots, commas, spaces and underscores are accepted as thousands separators,
// so "50.000", "50,000" and "50 000" all parse to 50000. A separator must be
// followed by exactly three digits, so "1.5" and "0.99" are rejected rather
// than read as 15 and 99. A leading "+" is ignored; negative amounts are
// rejected. Zero is a valid amount.
//
// Examples:
//
//	ParseAmount("50000")   -> 50000, nil
//	ParseAmount("1.250.000") -> 1250000, nil
//	ParseAmount("12,5")    -> 0, ErrInvalidInput
//	ParseAmount("-5")      -> 0, ErrNegativeAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidInput
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeAmount
	}
	s = strings.TrimPrefix(s, "+")

	groups := strings.FieldsFunc(s, isThousandsSeparator)
	if len(groups) == 0 || utf8.RuneCountInString(s) != groupedLen(groups) {
		return 0, ErrInvalidInput
	}
	for i, g := range groups {
		if !isDigits(g) {
			return 0, ErrInvalidInput
		}
		if len(groups) == 1 {
			break
		}
		if (i == 0 && len(g) > 3) || (i > 0 && len(g) != 3) {
			return 0, ErrInvalidInput
		}
	}
	v, err := strconv.ParseInt(strings.Join(groups, ""), 10, 64)
	if err != nil {
		return 0, ErrInvalidInput
	}
	return v, nil
}

func isThousandsSeparator(r rune) bool {
	switch r {
	case '.', ',', ' ', '_', '\u00a0':
		return true
	}
	return false
}

// groupedLen is the rune length of groups joined by single separators.
// A mismatch with the input means leading, trailing or doubled separators.
func groupedLen(groups []string) int {
	n := len(groups) - 1
	for _, g := range groups {
		n += utf8.RuneCountInString(g)
	}
	return n
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// FormatVND renders an amount with Vietnamese digit grouping, e.g. "80.000 ₫".
func FormatVND(amount int64) string {
	return vndPrinter.Sprintf("%d ₫", amount)
}
