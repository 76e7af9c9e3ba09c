package countries

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/forms"); got != "/forms/api/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("", WithRoutePath("countries")); got != "/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestRegisterRoutes_RegistersHandler(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := New(WithCountries(sample)).RegisterRoutes(mux, "/")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pattern != "/api/countries" {
		t.Fatalf("unexpected registered pattern: %q", pattern)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, pattern+"?q=nor", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
