package param

// Descriptor holds per-parameter metadata. It is a pure record; it has no
// methods beyond field access. DynamicTyping = true relaxes both typing (any
// variant may be assigned) and range attachment (any range may be attached
// regardless of the current value's type).
type Descriptor struct {
	Description           string
	AdditionalConstraints string
	ReadOnly              bool
	DynamicTyping         bool
	IntegerRange          *IntegerRange
	FloatingPointRange    *FloatingPointRange
}
