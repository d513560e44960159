package ledger

import (
	"errors"
	"strings"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	// maxAmountText caps the length of an amount as typed.
	maxAmountText = 40
	// maxExponent and minExponent bound the decimal exponent so rounding
	// and formatting stay cheap.
	maxExponent = 12
	minExponent = -maxAmountText
)

// MaxAmount is the exclusive upper bound on the magnitude of any amount.
var MaxAmount = decimal.New(1, maxExponent)

// ErrAmountOutOfRange reports an amount too large or too precise to handle.
var ErrAmountOutOfRange = errors.New("amount is out of range")

// ErrAmountSyntax reports text that is not a decimal number.
var ErrAmountSyntax = errors.New("amount is not a number")

// CheckAmount rejects amounts whose magnitude reaches MaxAmount or whose
// exponent is outside the supported range. It never rescales an unchecked
// value.
func CheckAmount(amount decimal.Decimal) error {
	exp := amount.Exponent()
	if exp > maxExponent || exp < minExponent {
		return ErrAmountOutOfRange
	}
	if amount.Abs().Cmp(MaxAmount) >= 0 {
		return ErrAmountOutOfRange
	}
	return nil
}

// ParseAmount reads a decimal amount and applies CheckAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxAmountText {
		return decimal.Zero, ErrAmountOutOfRange
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrAmountSyntax
	}
	if err := CheckAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// NormalizeAmount rounds an amount to cents. Example: 19.999 becomes 20.00.
func NormalizeAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(domain.AmountPlaces)
}

// FormatAmount renders an amount with exactly two decimals, e.g. "20.00".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(domain.AmountPlaces)
}
