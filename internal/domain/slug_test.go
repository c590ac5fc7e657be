package domain

import (
	"strings"
	"testing"
	"unicode"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"simple", "Carbonara", "carbonara"},
		{"spaces", "Borsch with beans", "borsch-with-beans"},
		{"punctuation", "Mom's best pie!", "mom-s-best-pie"},
		{"collapsed", "a  --  b", "a-b"},
		{"trimmed", "  salad  ", "salad"},
		{"unicode", "Crème brûlée", "crème-brûlée"},
		{"empty", "", ""},
		{"only-symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.value); got != tt.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidRatingValue(t *testing.T) {
	for _, v := range []int{1, 2, 3, 4, 5} {
		if !ValidRatingValue(v) {
			t.Fatalf("value %d should be valid", v)
		}
	}
	for _, v := range []int{-1, 0, 6, 100} {
		if ValidRatingValue(v) {
			t.Fatalf("value %d should not be valid", v)
		}
	}
}

func FuzzSlugify(f *testing.F) {
	seeds := []string{"Plain title", "  spaces  ", "Ukrainian Борщ", "123 go!", ""}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		slug := Slugify(raw)
		if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
			t.Fatalf("slug %q has a leading or trailing hyphen", slug)
		}
		if strings.Contains(slug, "--") {
			t.Fatalf("slug %q contains consecutive hyphens", slug)
		}
		for _, r := range slug {
			if r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				t.Fatalf("slug %q contains disallowed rune %q", slug, r)
			}
		}
	})
}
