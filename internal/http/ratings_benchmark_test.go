package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func BenchmarkHandleSubmitRating(b *testing.B) {
	srv, _ := buildTestServer(b)
	recipe := mustCreatePublished(b, srv, "Benchmark Recipe")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		payload := []byte(`{"value":4}`)
		req := httptest.NewRequest(http.MethodPost, "/recipes/"+recipe.ID+"/ratings", bytes.NewReader(payload))
		req = asUser(attachIDParam(req, recipe.ID), fmt.Sprintf("bench-%d", i), false)
		rec := httptest.NewRecorder()

		srv.handleSubmitRating(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
