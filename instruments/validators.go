package instruments

import (
	"fmt"

	"github.com/FenHarel95/pymeasure/comm"
)

// Validator checks a candidate value before it is formatted onto the wire
// and may rewrite it (range truncation). A non-nil error means nothing is
// sent.
type Validator[T any] func(T) (T, error)

type Number interface {
	~int | ~int64 | ~float64
}

// StrictSet accepts exactly the enumerated choices.
func StrictSet[T comparable](choices ...T) Validator[T] {
	return func(v T) (T, error) {
		for _, c := range choices {
			if v == c {
				return v, nil
			}
		}
		var zero T
		return zero, &comm.Error{Kind: comm.ErrValidate, Err: fmt.Errorf("value %v not in %v", v, choices)}
	}
}

// StrictRange rejects values outside [min, max].
func StrictRange[N Number](min, max N) Validator[N] {
	return func(v N) (N, error) {
		if v < min || v > max {
			var zero N
			return zero, &comm.Error{Kind: comm.ErrValidate, Err: fmt.Errorf("value %v outside [%v, %v]", v, min, max)}
		}
		return v, nil
	}
}

// TruncatedRange clamps values to [min, max] instead of rejecting them.
func TruncatedRange[N Number](min, max N) Validator[N] {
	return func(v N) (N, error) {
		if v < min {
			return min, nil
		}
		if v > max {
			return max, nil
		}
		return v, nil
	}
}
