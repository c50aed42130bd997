package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"swaparb/internal/config"
)

func TestNewServesHealth(t *testing.T) {
	srv, err := New(config.Default(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d", rec.Code)
	}
}
