package poster

import (
	"bytes"
	"testing"
)

func TestGenerate(t *testing.T) {
	pdf, err := Generate(Data{
		ShopName:      "Tea House",
		Tagline:       "Fine loose-leaf teas",
		StorefrontURL: "https://shops.example.com/tea-house",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("expected non-empty PDF")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", pdf[:8])
	}
}

func TestGenerate_RequiresURL(t *testing.T) {
	if _, err := Generate(Data{ShopName: "Tea House"}); err == nil {
		t.Fatal("expected error for missing storefront URL")
	}
}
