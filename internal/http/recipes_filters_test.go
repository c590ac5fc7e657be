package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/o-kravets/plateful/internal/repository"
)

func TestBuildRecipeFilters(t *testing.T) {
	payload, err := json.Marshal(repository.RecipeCursor{
		Publish: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
		ID:      "recipe-1",
	})
	if err != nil {
		t.Fatalf("marshal cursor: %v", err)
	}
	cursor := base64.StdEncoding.EncodeToString(payload)

	values, _ := url.ParseQuery("q= curry &tag= dinner &limit=50&cursor=" + url.QueryEscape(cursor))

	filters, err := buildRecipeFilters(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filters.Query == nil || *filters.Query != "curry" {
		t.Fatalf("query not trimmed: %+v", filters.Query)
	}
	if filters.TagSlug == nil || *filters.TagSlug != "dinner" {
		t.Fatalf("tag parse failed: %+v", filters.TagSlug)
	}
	if filters.Limit != 50 {
		t.Fatalf("limit not parsed: %d", filters.Limit)
	}
	if filters.Cursor == nil || filters.Cursor.ID != "recipe-1" {
		t.Fatalf("cursor parse failed: %+v", filters.Cursor)
	}
}

func TestBuildRecipeFilters_Invalid(t *testing.T) {
	values, _ := url.ParseQuery("limit=abc")
	if _, err := buildRecipeFilters(values); err == nil {
		t.Fatalf("expected error for invalid limit")
	}

	values, _ = url.ParseQuery("cursor=!!!not-base64!!!")
	if _, err := buildRecipeFilters(values); err == nil {
		t.Fatalf("expected error for invalid cursor")
	}
}
