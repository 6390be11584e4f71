package param

import "math"

// IntegerRange constrains an I64/VecI64 parameter to an inclusive stride
// [Min, Max] with step Step > 0.
type IntegerRange struct {
	Min  int64
	Max  int64
	Step uint64
}

// Contains reports whether x lies in the range and on the stride. Step must
// be > 0; constructing an IntegerRange with Step == 0 is a programmer error
// and Contains always returns false for it (see NewIntegerRange).
func (r IntegerRange) Contains(x int64) bool {
	if x < r.Min || x > r.Max {
		return false
	}
	if r.Step == 0 {
		return false
	}
	return (x-r.Min)%int64(r.Step) == 0
}

// NewIntegerRange validates step > 0 before returning a usable range.
func NewIntegerRange(min, max int64, step uint64) (IntegerRange, error) {
	if step == 0 {
		return IntegerRange{}, &Error{Kind: InvalidRangeAttachment, Msg: "integer range step must be > 0"}
	}
	return IntegerRange{Min: min, Max: max, Step: step}, nil
}

// FloatingPointRange constrains an F64/VecF64 parameter to an inclusive
// interval [Min, Max] with an optional stride Step >= 0. Step == 0 disables
// the stride check.
type FloatingPointRange struct {
	Min  float64
	Max  float64
	Step float64
}

// Contains reports whether x lies in the range and, if Step != 0, on the
// stride (ordinary floating-point remainder).
func (r FloatingPointRange) Contains(x float64) bool {
	if x < r.Min || x > r.Max {
		return false
	}
	if r.Step == 0 {
		return true
	}
	return math.Mod(x-r.Min, r.Step) == 0
}
