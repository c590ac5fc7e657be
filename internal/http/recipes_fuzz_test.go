package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildRecipeFilters(f *testing.F) {
	seeds := []string{
		"q=curry&tag=dinner&limit=20",
		"limit=abc",
		"cursor=bm90LWpzb24=",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		_, _ = buildRecipeFilters(values)
	})
}
