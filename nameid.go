package animation2d

// NameId is a short name string: a stable identifier for a bone, slot,
// skin, attachment, constraint, or event name. Two NameIds compare equal iff
// their underlying strings are equal; String() returns the original text so
// NameId is useful directly in error messages and logs.
type NameId struct {
	s string
}

// NewNameId wraps s in a NameId; no intern table is kept, so equality is
// plain string equality. The empty string is a valid, unbound id.
func NewNameId(s string) NameId { return NameId{s: s} }

// IsEmpty reports whether the id carries no name.
func (n NameId) IsEmpty() bool { return n.s == "" }

// String returns the original name.
func (n NameId) String() string { return n.s }
