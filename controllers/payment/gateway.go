package paymentControllers

import (
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

// Approve simulates the gateway decision with a 90% approval rate. Package
// variable so tests can force either outcome.
var Approve = func() bool {
	return rand.Float64() < 0.9
}

var declineReasons = []string{
	"Insufficient funds",
	"Card declined by issuing bank",
	"Suspected fraudulent transaction",
	"Card limit exceeded",
}

func randomDeclineReason() string {
	return declineReasons[rand.Intn(len(declineReasons))]
}

var (
	digitsOnly = regexp.MustCompile(`^[0-9]+$`)

	visaPrefix       = regexp.MustCompile(`^4`)
	mastercardPrefix = regexp.MustCompile(`^5[1-5]`)
	amexPrefix       = regexp.MustCompile(`^3[47]`)
	discoverPrefix   = regexp.MustCompile(`^6`)
)

// normalizeCardNumber strips spaces and validates length and digits.
func normalizeCardNumber(number string) (string, error) {
	number = strings.ReplaceAll(number, " ", "")
	if !digitsOnly.MatchString(number) {
		return "", errors.New("card number must contain digits only")
	}
	if len(number) < 13 || len(number) > 19 {
		return "", errors.New("card number must be 13 to 19 digits")
	}
	return number, nil
}

func cardBrand(number string) string {
	switch {
	case visaPrefix.MatchString(number):
		return "Visa"
	case mastercardPrefix.MatchString(number):
		return "Mastercard"
	case amexPrefix.MatchString(number):
		return "Amex"
	case discoverPrefix.MatchString(number):
		return "Discover"
	default:
		return "Unknown"
	}
}

// validateExpiry rejects cards expiring before the current month.
func validateExpiry(month, year int, now time.Time) error {
	if month < 1 || month > 12 {
		return errors.New("invalid expiry month")
	}
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return errors.New("card has expired")
	}
	return nil
}

func validateCVV(cvv string) error {
	if len(cvv) < 3 || len(cvv) > 4 || !digitsOnly.MatchString(cvv) {
		return errors.New("CVV must be 3 or 4 digits")
	}
	return nil
}
