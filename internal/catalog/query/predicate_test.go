package query

import "testing"

func TestBuild_BaseRestrictions(t *testing.T) {
	pred := Build("shop-1", "", "", false)

	if len(pred.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(pred.Children))
	}

	shop, ok := pred.Children[0].(EqualsPredicate)
	if !ok || shop.Field != FieldShopID || shop.Value != "shop-1" {
		t.Fatalf("expected shop restriction first, got %#v", pred.Children[0])
	}

	avail, ok := pred.Children[1].(EqualsPredicate)
	if !ok || avail.Field != FieldAvailable || avail.Value != true {
		t.Fatalf("expected availability restriction, got %#v", pred.Children[1])
	}

	promoted, ok := pred.Children[2].(EqualsPredicate)
	if !ok || promoted.Field != FieldPromoted || promoted.Value != false {
		t.Fatalf("expected non-promoted restriction, got %#v", pred.Children[2])
	}
}

func TestBuild_PromotedOnly(t *testing.T) {
	pred := Build("shop-1", "", "", true)

	last, ok := pred.Children[len(pred.Children)-1].(EqualsPredicate)
	if !ok || last.Field != FieldPromoted || last.Value != true {
		t.Fatalf("expected promoted=true restriction, got %#v", last)
	}
}

// The search disjunction must stay a single nested clause inside the
// top-level conjunction. Flattening it would turn
// "non-promoted AND category=Snacks AND (name~tea OR category~tea)" into
// "(non-promoted AND category=Snacks) OR name~tea", silently widening the
// category and promoted restrictions.
func TestBuild_SearchDisjunctionIsNested(t *testing.T) {
	pred := Build("shop-1", "tea", "Snacks", false)

	if len(pred.Children) != 5 {
		t.Fatalf("expected 5 children (shop, available, search OR, category, promoted), got %d", len(pred.Children))
	}

	var orCount int
	var or OrPredicate
	for _, child := range pred.Children {
		if o, ok := child.(OrPredicate); ok {
			orCount++
			or = o
		}
	}
	if orCount != 1 {
		t.Fatalf("expected exactly one nested OR clause, found %d", orCount)
	}

	if len(or.Children) != 2 {
		t.Fatalf("expected 2 branches in search disjunction, got %d", len(or.Children))
	}
	name, ok := or.Children[0].(ContainsPredicate)
	if !ok || name.Field != FieldName || name.Term != "tea" {
		t.Fatalf("expected name-contains branch, got %#v", or.Children[0])
	}
	cat, ok := or.Children[1].(ContainsPredicate)
	if !ok || cat.Field != FieldCategory || cat.Term != "tea" {
		t.Fatalf("expected category-contains branch, got %#v", or.Children[1])
	}

	// Category and promoted restrictions remain top-level conjuncts.
	var hasCategory, hasPromoted bool
	for _, child := range pred.Children {
		if eq, ok := child.(EqualsPredicate); ok {
			if eq.Field == FieldCategory && eq.Value == "Snacks" {
				hasCategory = true
			}
			if eq.Field == FieldPromoted && eq.Value == false {
				hasPromoted = true
			}
		}
	}
	if !hasCategory || !hasPromoted {
		t.Fatalf("expected category and promoted conjuncts alongside the OR, got %#v", pred.Children)
	}
}

func TestBuild_CategorySentinelSkipsFilter(t *testing.T) {
	for _, sentinel := range []string{"all", "All", "ALL", "", "  "} {
		pred := Build("shop-1", "", sentinel, false)
		for _, child := range pred.Children {
			if eq, ok := child.(EqualsPredicate); ok && eq.Field == FieldCategory {
				t.Fatalf("sentinel %q must not produce a category restriction", sentinel)
			}
		}
	}
}

func TestBuild_BlankSearchTermSkipsDisjunction(t *testing.T) {
	pred := Build("shop-1", "   ", "", false)
	for _, child := range pred.Children {
		if _, ok := child.(OrPredicate); ok {
			t.Fatal("blank search term must not produce a search disjunction")
		}
	}
}
