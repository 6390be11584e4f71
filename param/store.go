package param

import (
	"sort"
	"sync"

	"github.com/mdzio/go-logging"
)

var log = logging.Get("param")

// Store is an ordered mapping from parameter name to Parameter, with a
// mutation API that enforces type, read-only and range constraints on every
// write. Iteration is always in lexicographic byte order over the name. The
// map is shared by the owning goroutine and the service worker goroutine via
// a reader-writer lock: reads may proceed concurrently with each other but
// never with a mutation.
type Store struct {
	mtx    sync.RWMutex
	params map[string]*Parameter
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{params: make(map[string]*Parameter)}
}

// SetParameter creates or updates a statically-typed parameter.
func (s *Store) SetParameter(name string, value Value, readOnly bool, description string) error {
	if value.Kind == NotSet {
		return &Error{Kind: InvalidValue, Msg: "NotSet cannot be used as a statically typed value"}
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if p, ok := s.params[name]; ok {
		if p.Descriptor.DynamicTyping {
			return &Error{Kind: TypingModeMismatch, Msg: name + " is a dynamically typed value"}
		}
		if p.Descriptor.ReadOnly {
			return &Error{Kind: ReadOnly, Msg: name + " is read only"}
		}
		if !p.checkRange(value) {
			return &Error{Kind: RangeViolation, Msg: name + " is exceeding the range"}
		}
		if !p.Value.TypeCheck(value) {
			return &Error{Kind: TypeMismatch, Msg: "failed type checking: dst = " + p.Value.TypeName() + ", src = " + value.TypeName()}
		}
		p.Value = value
		return nil
	}

	desc := description
	if desc == "" {
		desc = name
	}
	s.params[name] = &Parameter{
		Descriptor: Descriptor{Description: desc, ReadOnly: readOnly, DynamicTyping: false},
		Value:      value,
	}
	return nil
}

// SetDynamicallyTypedParameter creates or updates a dynamically-typed
// parameter. Any variant, including NotSet, may be assigned.
func (s *Store) SetDynamicallyTypedParameter(name string, value Value, readOnly bool, description string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if p, ok := s.params[name]; ok {
		if !p.Descriptor.DynamicTyping {
			return &Error{Kind: TypingModeMismatch, Msg: name + " is a statically typed value"}
		}
		if p.Descriptor.ReadOnly {
			return &Error{Kind: ReadOnly, Msg: name + " is read only"}
		}
		if !p.checkRange(value) {
			return &Error{Kind: RangeViolation, Msg: name + " is exceeding the range"}
		}
		p.Value = value
		return nil
	}

	desc := description
	if desc == "" {
		desc = name
	}
	s.params[name] = &Parameter{
		Descriptor: Descriptor{Description: desc, ReadOnly: readOnly, DynamicTyping: true},
		Value:      value,
	}
	return nil
}

// SetFloatingPointRange attaches a floating-point range to an existing
// parameter. The current value must already satisfy the prospective range;
// for a statically-typed parameter the current variant must be F64 or
// VecF64.
func (s *Store) SetFloatingPointRange(name string, min, max, step float64) error {
	rng := FloatingPointRange{Min: min, Max: max, Step: step}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, ok := s.params[name]
	if !ok {
		return &Error{Kind: UnknownParameter, Msg: "no such parameter: name = " + name}
	}
	if !prospectiveFloatRangeOK(rng, p.Value) {
		return &Error{Kind: RangeViolation, Msg: p.Value.String() + " is not in the range"}
	}
	if p.Descriptor.DynamicTyping {
		p.Descriptor.FloatingPointRange = &rng
		return nil
	}
	switch p.Value.Kind {
	case F64, VecF64:
		p.Descriptor.FloatingPointRange = &rng
		return nil
	default:
		return &Error{Kind: InvalidRangeAttachment, Msg: name + "(" + p.Value.TypeName() + ") is not a floating point (array) type"}
	}
}

// SetIntegerRange attaches an integer range to an existing parameter,
// symmetric to SetFloatingPointRange for I64/VecI64. Built via NewIntegerRange
// so the step > 0 guard is enforced on this, the only real entry point for
// attaching an integer range.
func (s *Store) SetIntegerRange(name string, min, max int64, step uint64) error {
	rng, err := NewIntegerRange(min, max, step)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, ok := s.params[name]
	if !ok {
		return &Error{Kind: UnknownParameter, Msg: "no such parameter: name = " + name}
	}
	if !prospectiveIntRangeOK(rng, p.Value) {
		return &Error{Kind: RangeViolation, Msg: p.Value.String() + " is not in the range"}
	}
	if p.Descriptor.DynamicTyping {
		p.Descriptor.IntegerRange = &rng
		return nil
	}
	switch p.Value.Kind {
	case I64, VecI64:
		p.Descriptor.IntegerRange = &rng
		return nil
	default:
		return &Error{Kind: InvalidRangeAttachment, Msg: name + "(" + p.Value.TypeName() + ") is not an integer (array) type"}
	}
}

func prospectiveFloatRangeOK(rng FloatingPointRange, value Value) bool {
	switch value.Kind {
	case F64:
		return rng.Contains(value.F64())
	case VecF64:
		for _, x := range value.vecF64 {
			if !rng.Contains(x) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func prospectiveIntRangeOK(rng IntegerRange, value Value) bool {
	switch value.Kind {
	case I64:
		return rng.Contains(value.I64())
	case VecI64:
		for _, x := range value.vecI64 {
			if !rng.Contains(x) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Get returns the current value and descriptor of name and whether it
// exists.
func (s *Store) Get(name string) (Value, Descriptor, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	p, ok := s.params[name]
	if !ok {
		return Value{}, Descriptor{}, false
	}
	return p.Value, p.Descriptor, true
}

// View runs fn once under a single read-lock acquisition, passing it a get
// closure equivalent to Get. Callers that need to look up several names as
// one consistent snapshot (get/get-types/describe requests) must use
// View instead of calling Get in a loop, since a writer could otherwise
// interleave between two lookups of the same batch. fn must not call back
// into the Store.
func (s *Store) View(fn func(get func(name string) (Value, Descriptor, bool))) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	fn(func(name string) (Value, Descriptor, bool) {
		p, ok := s.params[name]
		if !ok {
			return Value{}, Descriptor{}, false
		}
		return p.Value, p.Descriptor, true
	})
}

// Names returns all parameter names in lexicographic order.
func (s *Store) Names() []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.sortedNamesLocked()
}

func (s *Store) sortedNamesLocked() []string {
	names := make([]string, 0, len(s.params))
	for n := range s.params {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored parameters.
func (s *Store) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.params)
}

// remoteSetOutcome is the per-element result of a remote set.
type remoteSetOutcome struct {
	Successful bool
	Reason     string
}

// RemoteSetAll applies a batch of remote set requests under a single write
// lock acquisition, one outcome per (name, value) pair in order. Used by both
// set_parameters and set_parameters_atomically (see paramsrv).
func (s *Store) RemoteSetAll(names []string, values []Value) []RemoteSetOutcome {
	out := make([]RemoteSetOutcome, len(names))
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for i := range names {
		out[i] = s.remoteSetLocked(names[i], values[i])
	}
	return out
}

// remoteSetLocked applies value to name under the remote-set rules (distinct
// from SetParameter/SetDynamicallyTypedParameter: dynamic typing is
// transparent to the caller, and the read-only branch deliberately leaves
// Successful at its zero value for wire compatibility with existing
// clients). Caller must hold s.mtx for writing.
func (s *Store) remoteSetLocked(name string, value Value) remoteSetOutcome {
	p, ok := s.params[name]
	if !ok {
		return remoteSetOutcome{Successful: false, Reason: "no such parameter: name = " + name}
	}
	if p.Descriptor.ReadOnly {
		return remoteSetOutcome{Reason: name + " is read only"}
	}
	if !p.checkRange(value) {
		return remoteSetOutcome{Successful: false, Reason: name + " is not in the range"}
	}
	if p.Descriptor.DynamicTyping || p.Value.TypeCheck(value) {
		p.Value = value
		return remoteSetOutcome{Successful: true}
	}
	return remoteSetOutcome{
		Successful: false,
		Reason:     "failed type checking: dst = " + p.Value.TypeName() + ", src = " + value.TypeName(),
	}
}

// RemoteSetOutcome is the exported form of remoteSetOutcome, returned to
// callers outside the package (paramsrv handlers).
type RemoteSetOutcome = remoteSetOutcome

// List implements the prefix/depth query language. prefixes may be empty;
// depth == 0 means unlimited depth. The separator is ASCII '.'.
func (s *Store) List(prefixes []string, depth uint64) (names []string, resultPrefixes []string) {
	const sep = '.'

	s.mtx.Lock() // a write lock is stronger than a pure query needs, kept for parity with callers that assume exclusive access during a list
	defer s.mtx.Unlock()

	for _, name := range s.sortedNamesLocked() {
		cnt := countByte(name, sep)
		getAll := (len(prefixes) == 0 && depth == 0) || uint64(cnt) < depth

		matches := false
		if !getAll {
			for _, p := range prefixes {
				if name == p {
					matches = true
					break
				}
				prefixSep := p + string(sep)
				if len(name) >= len(prefixSep) && name[:len(prefixSep)] == prefixSep {
					if depth == 0 {
						matches = true
						break
					}
					// counts separators within the first len(p) bytes of
					// name, i.e. within p itself, not in the part of name
					// after the prefix, so names at any depth below p match
					// whenever p itself has fewer than depth separators.
					pcnt := 0
					if len(p) <= len(name) {
						pcnt = countByte(name[:len(p)], sep)
					}
					if uint64(pcnt) < depth {
						matches = true
						break
					}
				}
			}
		}

		if getAll || matches {
			names = append(names, name)
			segments := splitByte(name, sep)
			if len(segments) > 1 {
				// segments are joined without re-inserting the separator,
				// so "a.b.c" contributes prefix "ab" rather than "a.b".
				var prefix string
				for _, seg := range segments[:len(segments)-1] {
					prefix += seg
				}
				if !contains(resultPrefixes, prefix) {
					resultPrefixes = append(resultPrefixes, prefix)
				}
			}
		}
	}
	return names, resultPrefixes
}

func countByte(s string, b byte) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			n++
		}
	}
	return n
}

func splitByte(s string, b byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
