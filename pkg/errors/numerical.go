// Numerical stability helpers used by the gradient-descent classifier.

package errors

import (
	"fmt"
	"math"
)

// NumericalInstabilityError reports NaN/Inf detected during an iterative
// computation.
type NumericalInstabilityError struct {
	Operation string
	Value     float64
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("featpipe: numerical instability detected in %s at iteration %d (value: %g)", e.Operation, e.Iteration, e.Value)
}

// CheckScalar returns an error when value is NaN or infinite.
func CheckScalar(operation string, value float64, iteration int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return WithStack(&NumericalInstabilityError{Operation: operation, Value: value, Iteration: iteration})
	}
	return nil
}

// StabilizeExp computes exp(x) with the argument clamped to avoid overflow.
func StabilizeExp(value float64) float64 {
	const maxExp = 700 // exp(709) overflows float64
	if value > maxExp {
		value = maxExp
	} else if value < -maxExp {
		value = -maxExp
	}
	return math.Exp(value)
}

// StabilizeLog computes log(x) with a floor to avoid log(0).
func StabilizeLog(value float64) float64 {
	const eps = 1e-15
	if value < eps {
		value = eps
	}
	return math.Log(value)
}
