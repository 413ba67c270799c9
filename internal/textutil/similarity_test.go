package textutil

import (
	"math"
	"reflect"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
		want float64
	}{
		{"both nil", nil, nil, 0},
		{"a nil", nil, NewFingerprint("конь боевой"), 0},
		{"b nil", NewFingerprint("конь боевой"), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityIgnoresCaseAndPunctuation(t *testing.T) {
	a := NewFingerprint("Ой, то не вечер, то не вечер,\nМне малым-мало спалось")
	b := NewFingerprint("ой то не ВЕЧЕР то не вечер мне малым мало спалось!")

	got := CosineSimilarity(a, b)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("CosineSimilarity(same words) = %v, want 1.0", got)
	}
}

func TestCosineSimilarityCompletelyDifferent(t *testing.T) {
	a := NewFingerprint("конь боевой походный")
	b := NewFingerprint("степь широкая река")

	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(different) = %v, want 0", got)
	}
}

func TestCosineSimilarityPartialOverlap(t *testing.T) {
	a := NewFingerprint("конь боевой с походным вьюком")
	b := NewFingerprint("конь вороной с походным седлом")

	got := CosineSimilarity(a, b)
	if got <= 0 || got >= 1 {
		t.Errorf("CosineSimilarity(partial) = %v, want between 0 and 1", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Ёлки, ой да ёлочки! Don Cossack 1812")
	want := []string{"елки", "елочки", "don", "cossack", "1812"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %q, want %q", got, want)
	}
}

func TestNewFingerprintEmpty(t *testing.T) {
	if fp := NewFingerprint("ой да"); fp != nil {
		t.Fatalf("expected nil fingerprint for short tokens, got %d tokens", fp.TokenCount())
	}
}

func TestSimilar(t *testing.T) {
	verse := NewFingerprint("Ой, то не вечер, то не вечер, мне малым-мало спалось")
	same := NewFingerprint("Ой, то не вечер, то не вечер, мне малым-мало спалось!")
	if _, ok := Similar(verse, same, 4, 0.9); !ok {
		t.Fatal("expected identical verses to match")
	}
	if _, ok := Similar(verse, same, 10, 0.9); ok {
		t.Fatal("expected short verses below the token minimum not to match")
	}
	other := NewFingerprint("Конь боевой с походным вьюком")
	if score, ok := Similar(verse, other, 1, 0.9); ok || score != 0 {
		t.Fatalf("expected unrelated verses not to match, got %v", score)
	}
	if _, ok := Similar(nil, verse, 0, 0); ok {
		t.Fatal("expected nil fingerprint not to match")
	}
}
