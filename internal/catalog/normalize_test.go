package catalog_test

import (
	"reflect"
	"testing"

	"istoki/internal/catalog"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"cyrillic", "служба; дорога; товарищество", []string{"служба", "дорога", "товарищество"}},
		{"empty", "", []string{}},
		{"separators only", " ; ;; ", []string{}},
		{"single", "https://example.com", []string{"https://example.com"}},
		{"keeps order and inner spaces", " b c ;a", []string{"b c", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.SplitList(tt.raw)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitList(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFoldTerm(t *testing.T) {
	if catalog.FoldTerm(" Атаман ") != catalog.FoldTerm("атаман") {
		t.Fatal("expected case-insensitive match")
	}
	if catalog.FoldTerm("Курень") == catalog.FoldTerm("Кош") {
		t.Fatal("distinct terms must not collide")
	}
}
