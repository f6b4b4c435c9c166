// Package query builds structured filter predicates for catalog reads.
//
// A predicate is an explicit tagged tree (And, Or, Equals, Contains) rather
// than an ad hoc filter map. Composition happens here; rendering to the
// backing store's query form is the job of a separate translator, so the
// store can be swapped without touching predicate construction.
package query

import "strings"

// CategoryAll is the sentinel category value meaning "no category filter".
const CategoryAll = "all"

// Field identifies a catalog item attribute a predicate can match on.
type Field string

const (
	FieldShopID    Field = "shop_id"
	FieldName      Field = "name"
	FieldCategory  Field = "category"
	FieldPromoted  Field = "promoted"
	FieldAvailable Field = "available"
)

// Predicate is one node of the filter tree.
type Predicate interface {
	isPredicate()
}

// AndPredicate matches when every child matches.
type AndPredicate struct {
	Children []Predicate
}

// OrPredicate matches when at least one child matches.
type OrPredicate struct {
	Children []Predicate
}

// EqualsPredicate matches an exact attribute value.
type EqualsPredicate struct {
	Field Field
	Value interface{}
}

// ContainsPredicate matches a case-insensitive substring of an attribute.
type ContainsPredicate struct {
	Field Field
	Term  string
}

func (AndPredicate) isPredicate()      {}
func (OrPredicate) isPredicate()       {}
func (EqualsPredicate) isPredicate()   {}
func (ContainsPredicate) isPredicate() {}

// And combines predicates into a conjunction.
func And(children ...Predicate) AndPredicate {
	return AndPredicate{Children: children}
}

// Or combines predicates into a disjunction.
func Or(children ...Predicate) OrPredicate {
	return OrPredicate{Children: children}
}

// Equals matches field = value.
func Equals(field Field, value interface{}) EqualsPredicate {
	return EqualsPredicate{Field: field, Value: value}
}

// Contains matches field containing term, case-insensitively.
func Contains(field Field, term string) ContainsPredicate {
	return ContainsPredicate{Field: field, Term: term}
}

// Build translates a logical catalog query into a predicate tree.
//
// The base conjunction always restricts to the shop's own catalog and to
// available items. A non-empty search term adds a nested disjunction
// (name contains term OR category contains term) as a single child of the
// top-level conjunction; it is never flattened into it, otherwise the OR
// would widen the category and promoted restrictions. The promoted flag is
// always constrained in both directions so the standard catalog never
// re-surfaces promoted items.
func Build(shopID, searchTerm, category string, promotedOnly bool) AndPredicate {
	children := []Predicate{
		Equals(FieldShopID, shopID),
		Equals(FieldAvailable, true),
	}

	if term := strings.TrimSpace(searchTerm); term != "" {
		children = append(children, Or(
			Contains(FieldName, term),
			Contains(FieldCategory, term),
		))
	}

	if cat := strings.TrimSpace(category); cat != "" && !strings.EqualFold(cat, CategoryAll) {
		children = append(children, Equals(FieldCategory, cat))
	}

	children = append(children, Equals(FieldPromoted, promotedOnly))

	return And(children...)
}
