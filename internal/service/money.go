package service

import (
	"github.com/shopspring/decimal"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
)

// parseMoney parses a monetary field as an exact decimal and rejects
// negative values.
func parseMoney(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperrors.Validationf("%s: %q is not a valid decimal", field, value)
	}
	if d.IsNegative() {
		return decimal.Zero, apperrors.Validationf("%s: must not be negative", field)
	}
	return d, nil
}

// parseOptionalMoney treats an empty string as zero.
func parseOptionalMoney(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return parseMoney(field, value)
}

// parseSignedAmount parses a decimal that may legitimately be negative, such
// as a manual balance adjustment or a bank-reported balance.
func parseSignedAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperrors.Validationf("%s: %q is not a valid decimal", field, value)
	}
	return d, nil
}

// netAmount derives amount - discount + lateFee, the single invariant every
// monetary edit must satisfy (result never negative).
func netAmount(amount, discount, lateFee decimal.Decimal) (decimal.Decimal, error) {
	net := amount.Sub(discount).Add(lateFee)
	if net.IsNegative() {
		return decimal.Zero, apperrors.Validationf("net amount must not be negative (amount - discount + late fee = %s)", net.String())
	}
	return net, nil
}
