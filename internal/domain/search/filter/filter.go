package filter

// Op is the comparison applied by a single condition.
type Op string

const (
	// OpEquals requires exact equality on a text field.
	OpEquals Op = "eq"
	// OpContainsFold requires a case-insensitive, unanchored substring match.
	// On sequence fields any element may satisfy it.
	OpContainsFold Op = "contains_fold"
	// OpAtLeast requires a numeric field to be greater than or equal to the bound.
	OpAtLeast Op = "gte"
)

// Stored field names the builder targets.
const (
	FieldTitle  = "title"
	FieldKind   = "kind"
	FieldRating = "rating"
	FieldGenres = "genres"
)

// Expression is a conjunction of conditions. The zero value matches everything.
type Expression struct {
	conditions []Condition
}

// NewExpression creates an Expression from the given conditions (logical AND).
func NewExpression(conditions ...Condition) Expression {
	if len(conditions) == 0 {
		return Expression{}
	}
	c := make([]Condition, len(conditions))
	copy(c, conditions)
	return Expression{conditions: c}
}

// Conditions returns the conjoined conditions.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// Condition is a single filter clause on one field.
type Condition struct {
	field  string
	op     Op
	text   string
	number float64
}

// Equals creates an exact text match condition.
func Equals(field, value string) Condition {
	return Condition{field: field, op: OpEquals, text: value}
}

// ContainsFold creates a case-insensitive substring condition.
func ContainsFold(field, substr string) Condition {
	return Condition{field: field, op: OpContainsFold, text: substr}
}

// AtLeast creates an inclusive lower bound condition.
func AtLeast(field string, bound float64) Condition {
	return Condition{field: field, op: OpAtLeast, number: bound}
}

// Field returns the stored field name.
func (c Condition) Field() string { return c.field }

// Op returns the comparison operator.
func (c Condition) Op() Op { return c.op }

// Text returns the text operand of Equals and ContainsFold conditions.
func (c Condition) Text() string { return c.text }

// Number returns the numeric operand of AtLeast conditions.
func (c Condition) Number() float64 { return c.number }
