package engine

import (
	"errors"
	"fmt"
	"math"
)

const (
	KindNegativeValue = "negative-value"
	KindOutOfRange    = "out-of-range"
)

var (
	ErrNegativeValue = errors.New(KindNegativeValue)
	ErrOutOfRange    = errors.New(KindOutOfRange)

	// ErrNonFiniteValue has no kind of its own; callers report it as a bad request.
	ErrNonFiniteValue = errors.New("value must be a finite number")
)

// ValidateInput applies the presentation rules for an input value: it must be
// finite, and linear quantities must not be negative. Convert itself accepts
// any value; callers opt in to this check.
func ValidateInput(value float64, domain Domain, allowNegative bool) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: got %v", ErrNonFiniteValue, value)
	}
	if allowNegative || !IsLinear(domain) || value >= 0 {
		return nil
	}
	return fmt.Errorf("%w: %s value %v must be >= 0", ErrNegativeValue, domain, value)
}

// CheckResult rejects a converted value that overflowed to ±Inf or became NaN,
// since such a result cannot be rendered or serialized.
func CheckResult(result float64, to string, domain Domain) error {
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return fmt.Errorf("%w: %s result in %s is %v", ErrOutOfRange, domain, to, result)
	}
	return nil
}
