package value

// UndefinedBehavior determines how references to missing data are handled
// at render time.
type UndefinedBehavior int

const (
	// UndefinedLenient renders missing keys and out of range indexes as
	// null, treats them as false in conditionals and as empty arrays in
	// loops.
	UndefinedLenient UndefinedBehavior = iota

	// UndefinedStrict makes any reference to a missing top-level key, and
	// any out of range index, a render error.
	UndefinedStrict
)

func (b UndefinedBehavior) String() string {
	if b == UndefinedStrict {
		return "strict"
	}
	return "lenient"
}
