package repository

import (
	"fmt"
	"strings"

	"shopfront_backend/internal/catalog/query"
)

// columnFor maps predicate fields to catalog_items columns. The translator
// rejects unknown fields instead of interpolating them, so predicate trees
// can never smuggle arbitrary SQL.
var columnFor = map[query.Field]string{
	query.FieldShopID:    "shop_id",
	query.FieldName:      "name",
	query.FieldCategory:  "category",
	query.FieldPromoted:  "promoted",
	query.FieldAvailable: "available",
}

// TranslatePredicate renders a predicate tree as a parameterized Postgres
// WHERE clause. Nested And/Or nodes are parenthesized, preserving the
// grouping of the tree exactly. Placeholder numbering starts at argIndex.
func TranslatePredicate(pred query.Predicate, argIndex int) (string, []interface{}, error) {
	var args []interface{}

	clause, err := translateNode(pred, &args, &argIndex)
	if err != nil {
		return "", nil, err
	}
	return clause, args, nil
}

func translateNode(pred query.Predicate, args *[]interface{}, argIndex *int) (string, error) {
	switch node := pred.(type) {
	case query.AndPredicate:
		return translateJunction(node.Children, " AND ", args, argIndex)
	case query.OrPredicate:
		return translateJunction(node.Children, " OR ", args, argIndex)
	case query.EqualsPredicate:
		column, ok := columnFor[node.Field]
		if !ok {
			return "", fmt.Errorf("translate predicate: unknown field %q", node.Field)
		}
		*args = append(*args, node.Value)
		clause := fmt.Sprintf("%s = $%d", column, *argIndex)
		*argIndex++
		return clause, nil
	case query.ContainsPredicate:
		column, ok := columnFor[node.Field]
		if !ok {
			return "", fmt.Errorf("translate predicate: unknown field %q", node.Field)
		}
		*args = append(*args, "%"+node.Term+"%")
		clause := fmt.Sprintf("%s ILIKE $%d", column, *argIndex)
		*argIndex++
		return clause, nil
	default:
		return "", fmt.Errorf("translate predicate: unsupported node %T", pred)
	}
}

func translateJunction(children []query.Predicate, sep string, args *[]interface{}, argIndex *int) (string, error) {
	if len(children) == 0 {
		return "", fmt.Errorf("translate predicate: empty junction")
	}

	clauses := make([]string, 0, len(children))
	for _, child := range children {
		clause, err := translateNode(child, args, argIndex)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return "(" + strings.Join(clauses, sep) + ")", nil
}
