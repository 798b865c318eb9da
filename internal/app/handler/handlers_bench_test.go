package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/atinyakov/url-resolver/internal/app/service"
	"github.com/atinyakov/url-resolver/internal/shortcode"
	"github.com/atinyakov/url-resolver/internal/storage"
)

func newBenchService(b *testing.B) *service.URLService {
	b.Helper()

	s, err := storage.CreateMemoryStorage()
	if err != nil {
		b.Fatal(err)
	}
	return service.NewURL(s, shortcode.NewGenerator(), zap.NewNop())
}

func BenchmarkCreateOrFetch_Existing(b *testing.B) {
	postHandler := NewPost(newBenchService(b), zap.NewNop())
	body := `{"long_url":"https://example.com"}`

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		postHandler.CreateOrFetch(httptest.NewRecorder(), req)
	}
}

func BenchmarkCreateOrFetch_New(b *testing.B) {
	postHandler := NewPost(newBenchService(b), zap.NewNop())

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		body := fmt.Sprintf(`{"long_url":"https://example.com/%d"}`, i)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		postHandler.CreateOrFetch(httptest.NewRecorder(), req)
	}
}

func BenchmarkByQuery(b *testing.B) {
	svc := newBenchService(b)
	token, err := svc.CreateOrFetch(context.Background(), "https://example.com", "")
	if err != nil {
		b.Fatal(err)
	}
	getHandler := NewGet(svc, zap.NewNop())

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/?short_url="+token, nil)
		getHandler.ByQuery(httptest.NewRecorder(), req)
	}
}
