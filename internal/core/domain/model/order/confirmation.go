package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// confirmationCodeDigits is the length of the customer-visible handoff code.
const confirmationCodeDigits = 4

// NewConfirmationCode generates the one-time delivery code handed to the
// customer at order creation. Uses crypto/rand so codes are not guessable
// from the order number.
func NewConfirmationCode() (string, error) {
	limit := big.NewInt(1)
	for range confirmationCodeDigits {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}

	return fmt.Sprintf("%0*d", confirmationCodeDigits, n), nil
}

// NewOrderNumber generates the human-readable order number shown to all
// three parties, e.g. "ORD-48213765".
func NewOrderNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
	if err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}

	return fmt.Sprintf("ORD-%08d", n), nil
}
