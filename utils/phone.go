package utils

import (
	"regexp"
	"strings"
)

// FormatPhoneNumber strips everything but digits and prefixes the UAE
// country code (+971) when missing.
func FormatPhoneNumber(phoneNumber string) string {
	re := regexp.MustCompile(`\D`)
	digits := re.ReplaceAllString(phoneNumber, "")

	if len(digits) > 0 && !strings.HasPrefix(digits, "971") {
		digits = strings.TrimLeft(digits, "0")
		digits = "971" + digits
	}

	return digits
}

// ValidatePhoneNumber reports whether the number is a valid UAE mobile
// number: 9 digits after the country code, starting with 5.
func ValidatePhoneNumber(phoneNumber string) bool {
	re := regexp.MustCompile(`\D`)
	cleaned := re.ReplaceAllString(phoneNumber, "")

	cleaned = strings.TrimPrefix(cleaned, "971")
	cleaned = strings.TrimLeft(cleaned, "0")

	if len(cleaned) != 9 {
		return false
	}

	return strings.HasPrefix(cleaned, "5")
}

// NormalizePhoneNumber normalizes a phone number for database storage.
func NormalizePhoneNumber(phoneNumber string) string {
	return FormatPhoneNumber(phoneNumber)
}

// DisplayPhoneNumber formats a stored number for display.
func DisplayPhoneNumber(phoneNumber string) string {
	formatted := FormatPhoneNumber(phoneNumber)
	if len(formatted) == 12 && strings.HasPrefix(formatted, "971") {
		// +971 5X XXX XXXX
		return "+" + formatted[:3] + " " + formatted[3:5] + " " + formatted[5:8] + " " + formatted[8:]
	}
	return phoneNumber
}
