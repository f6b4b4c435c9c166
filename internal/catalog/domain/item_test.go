package domain

import (
	"errors"
	"testing"
)

func strPtr(s string) *string      { return &s }
func numPtr(f float64) *float64    { return &f }

func validRecord() Record {
	return Record{
		ID:       "item-1",
		Name:     strPtr("Green Tea"),
		Category: strPtr("Drinks"),
		Price:    numPtr(450),
		ImageRef: strPtr("shop-1/tea.png"),
	}
}

func TestRepairItem_DropsRecordMissingRequiredFields(t *testing.T) {
	cases := map[string]Record{
		"missing id":    func() Record { r := validRecord(); r.ID = ""; return r }(),
		"blank id":      func() Record { r := validRecord(); r.ID = "   "; return r }(),
		"missing name":  func() Record { r := validRecord(); r.Name = nil; return r }(),
		"blank name":    func() Record { r := validRecord(); r.Name = strPtr("  "); return r }(),
		"missing price": func() Record { r := validRecord(); r.Price = nil; return r }(),
	}

	for name, rec := range cases {
		if _, err := RepairItem(rec); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("%s: expected ErrMalformedRecord, got %v", name, err)
		}
	}
}

func TestRepairItem_SubstitutesDefaults(t *testing.T) {
	rec := validRecord()
	rec.Category = nil
	rec.ImageRef = nil

	item, err := RepairItem(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Category != DefaultCategory {
		t.Fatalf("expected default category %q, got %q", DefaultCategory, item.Category)
	}
	if item.ImageRef != PlaceholderImageRef {
		t.Fatalf("expected placeholder image, got %q", item.ImageRef)
	}
}

func TestRepairItem_OfferPriceRules(t *testing.T) {
	cases := []struct {
		name  string
		offer *float64
		keep  bool
	}{
		{"absent", nil, false},
		{"zero", numPtr(0), false},
		{"negative", numPtr(-10), false},
		{"equal to price", numPtr(450), false},
		{"above price", numPtr(500), false},
		{"below price", numPtr(399), true},
	}

	for _, tc := range cases {
		rec := validRecord()
		rec.OfferPrice = tc.offer

		item, err := RepairItem(rec)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if tc.keep && (item.OfferPrice == nil || *item.OfferPrice != *tc.offer) {
			t.Fatalf("%s: expected offer price kept", tc.name)
		}
		if !tc.keep && item.OfferPrice != nil {
			t.Fatalf("%s: expected offer price dropped, got %v", tc.name, *item.OfferPrice)
		}
	}
}

func TestCopyItems_Independent(t *testing.T) {
	offer := 300.0
	original := []Item{{ID: "a", Name: "A", Price: 400, OfferPrice: &offer}}

	copied := CopyItems(original)
	copied[0].Name = "mutated"
	*copied[0].OfferPrice = 1

	if original[0].Name != "A" {
		t.Fatal("copy aliased the item slice")
	}
	if *original[0].OfferPrice != 300.0 {
		t.Fatal("copy aliased the offer price pointer")
	}
}
