package repository

import (
	"testing"

	"shopfront_backend/internal/catalog/query"
)

func TestTranslatePredicate_EqualsAndContains(t *testing.T) {
	clause, args, err := TranslatePredicate(query.And(
		query.Equals(query.FieldShopID, "shop-1"),
		query.Contains(query.FieldName, "tea"),
	), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "(shop_id = $1 AND name ILIKE $2)"
	if clause != want {
		t.Fatalf("expected %q, got %q", want, clause)
	}
	if len(args) != 2 || args[0] != "shop-1" || args[1] != "%tea%" {
		t.Fatalf("unexpected args: %#v", args)
	}
}

// A nested OR must render inside its own parentheses so the search
// disjunction cannot widen the surrounding conjunction.
func TestTranslatePredicate_NestedGrouping(t *testing.T) {
	pred := query.Build("shop-1", "tea", "Snacks", false)

	clause, args, err := TranslatePredicate(pred, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "(shop_id = $1 AND available = $2 AND (name ILIKE $3 OR category ILIKE $4) AND category = $5 AND promoted = $6)"
	if clause != want {
		t.Fatalf("expected %q, got %q", want, clause)
	}

	wantArgs := []interface{}{"shop-1", true, "%tea%", "%tea%", "Snacks", false}
	if len(args) != len(wantArgs) {
		t.Fatalf("expected %d args, got %d", len(wantArgs), len(args))
	}
	for i := range wantArgs {
		if args[i] != wantArgs[i] {
			t.Fatalf("arg %d: expected %#v, got %#v", i, wantArgs[i], args[i])
		}
	}
}

func TestTranslatePredicate_ArgOffset(t *testing.T) {
	clause, _, err := TranslatePredicate(query.Equals(query.FieldPromoted, true), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clause != "promoted = $4" {
		t.Fatalf("expected placeholder numbering from $4, got %q", clause)
	}
}

func TestTranslatePredicate_RejectsUnknownField(t *testing.T) {
	if _, _, err := TranslatePredicate(query.Equals(query.Field("password"), "x"), 1); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestTranslatePredicate_RejectsEmptyJunction(t *testing.T) {
	if _, _, err := TranslatePredicate(query.And(), 1); err == nil {
		t.Fatal("expected error for empty conjunction")
	}
}
