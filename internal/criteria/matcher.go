package criteria

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Alias1177/Rebalancer/models"
)

// ErrUnsupportedOperator means a criterion carries an operator outside the
// supported set. This is malformed configuration and aborts the whole request.
var ErrUnsupportedOperator = errors.New("unsupported operator")

// Supported criterion operators.
const (
	OpEq = "="
	OpNe = "!="
	OpGt = ">"
	OpLt = "<"
	OpGe = ">="
	OpLe = "<="
)

// ValidOperator reports whether op belongs to the supported operator set.
func ValidOperator(op string) bool {
	switch op {
	case OpEq, OpNe, OpGt, OpLt, OpGe, OpLe:
		return true
	}
	return false
}

// Matches evaluates one predicate against a single account attribute value.
//
// Equality operators compare numerically when both sides parse as numbers
// (so "100000" equals 100000 and "2.50" equals "2.5"), falling back to
// case-sensitive string comparison otherwise. Ordering operators require both
// sides to be numeric; a non-numeric operand makes the predicate fail rather
// than abort the batch.
func Matches(value models.AttrValue, operator, comparison string) (bool, error) {
	comp, err := decimal.NewFromString(comparison)
	compNumeric := err == nil

	switch operator {
	case OpEq:
		if value.Numeric && compNumeric {
			return value.Num.Equal(comp), nil
		}
		return value.Raw == comparison, nil
	case OpNe:
		if value.Numeric && compNumeric {
			return !value.Num.Equal(comp), nil
		}
		return value.Raw != comparison, nil
	case OpGt:
		if !value.Numeric || !compNumeric {
			return false, nil
		}
		return value.Num.GreaterThan(comp), nil
	case OpLt:
		if !value.Numeric || !compNumeric {
			return false, nil
		}
		return value.Num.LessThan(comp), nil
	case OpGe:
		if !value.Numeric || !compNumeric {
			return false, nil
		}
		return value.Num.GreaterThanOrEqual(comp), nil
	case OpLe:
		if !value.Numeric || !compNumeric {
			return false, nil
		}
		return value.Num.LessThanOrEqual(comp), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnsupportedOperator, operator)
	}
}
