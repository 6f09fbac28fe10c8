package db

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QueryOp is a backend-neutral comparison operator.
type QueryOp string

const (
	// QueryEq matches exact equality.
	QueryEq QueryOp = "eq"
	// QueryContainsFold matches a case-insensitive substring; on arrays any element may match.
	QueryContainsFold QueryOp = "contains_fold"
	// QueryGte matches numbers greater than or equal to the value.
	QueryGte QueryOp = "gte"
)

// Condition is a single field predicate.
type Condition struct {
	Field string
	Op    QueryOp
	Value any
}

// Query is a conjunction of conditions. An empty query matches every document.
type Query struct {
	Conditions []Condition
}

// QueryBuilder is a fluent builder for queries.
type QueryBuilder struct {
	q Query
}

// NewQuery starts building a query.
func NewQuery() *QueryBuilder {
	return &QueryBuilder{}
}

// Eq adds an equality condition.
func (b *QueryBuilder) Eq(field string, value any) *QueryBuilder {
	b.q.Conditions = append(b.q.Conditions, Condition{Field: field, Op: QueryEq, Value: value})
	return b
}

// ContainsFold adds a case-insensitive substring condition.
func (b *QueryBuilder) ContainsFold(field, substr string) *QueryBuilder {
	b.q.Conditions = append(b.q.Conditions, Condition{Field: field, Op: QueryContainsFold, Value: substr})
	return b
}

// Gte adds an inclusive lower bound condition.
func (b *QueryBuilder) Gte(field string, value float64) *QueryBuilder {
	b.q.Conditions = append(b.q.Conditions, Condition{Field: field, Op: QueryGte, Value: value})
	return b
}

// Build validates and returns the query.
func (b *QueryBuilder) Build() (Query, error) {
	if err := b.q.Validate(); err != nil {
		return Query{}, err
	}
	return b.q, nil
}

// Validate checks operators and operand types.
func (q Query) Validate() error {
	for i, c := range q.Conditions {
		if c.Field == "" {
			return fmt.Errorf("condition %d: field is required", i)
		}
		switch c.Op {
		case QueryEq:
		case QueryContainsFold:
			if _, ok := c.Value.(string); !ok {
				return fmt.Errorf("condition %d on %q: contains_fold needs a string, got %T", i, c.Field, c.Value)
			}
		case QueryGte:
			if _, ok := toFloat(c.Value); !ok {
				return fmt.Errorf("condition %d on %q: gte needs a number, got %T", i, c.Field, c.Value)
			}
		default:
			return fmt.Errorf("condition %d on %q: %w: %q", i, c.Field, ErrUnsupportedOp, c.Op)
		}
	}
	return nil
}

// Matches evaluates the query against a document in process.
// Used by backends without a native query language.
func (q Query) Matches(doc Document) bool {
	for _, c := range q.Conditions {
		if !c.matches(doc[c.Field]) {
			return false
		}
	}
	return true
}

func (c Condition) matches(v any) bool {
	switch c.Op {
	case QueryEq:
		return equalValues(v, c.Value)
	case QueryContainsFold:
		substr, _ := c.Value.(string)
		return containsFold(v, strings.ToLower(substr))
	case QueryGte:
		bound, ok := toFloat(c.Value)
		if !ok {
			return false
		}
		n, ok := toFloat(v)
		return ok && n >= bound
	}
	return false
}

func equalValues(a, b any) bool {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return a == b
}

// containsFold reports whether v (a string or a sequence of strings) contains lowerSub.
func containsFold(v any, lowerSub string) bool {
	switch t := v.(type) {
	case string:
		return strings.Contains(strings.ToLower(t), lowerSub)
	case []string:
		for _, s := range t {
			if strings.Contains(strings.ToLower(s), lowerSub) {
				return true
			}
		}
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && strings.Contains(strings.ToLower(s), lowerSub) {
				return true
			}
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
