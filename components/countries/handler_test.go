package countries

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type handlerResponse struct {
	Data []Option `json:"data"`
}

var sample = []Country{
	{Code: "NO", Name: "Norway"},
	{Code: "ES", Name: "Spain"},
	{Code: "SE", Name: "Sweden"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "US", Name: "United States"},
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) []Option {
	t.Helper()
	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload.Data
}

func TestHandler_EmptyQueryReturnsPreferredFirst(t *testing.T) {
	h := Handler(WithCountries(sample), WithPreferred("US", "GB"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/countries?limit=3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	data := decode(t, rec)
	got := []string{data[0].Code, data[1].Code, data[2].Code}
	if strings.Join(got, ",") != "US,GB,NO" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestHandler_EmptySearchNone(t *testing.T) {
	h := Handler(WithCountries(sample), WithEmptySearchMode(EmptySearchNone))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/countries", nil))

	data := decode(t, rec)
	if data == nil || len(data) != 0 {
		t.Fatalf("expected empty data array, got %#v", data)
	}
}

func TestHandler_SearchRanksCodeThenPrefix(t *testing.T) {
	h := Handler(WithCountries(sample))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/countries?q=es", nil))

	data := decode(t, rec)
	if len(data) != 2 {
		t.Fatalf("expected 2 matches, got %#v", data)
	}
	if data[0].Value != "Spain" || data[1].Value != "United States" {
		t.Fatalf("unexpected results %#v", data)
	}
}

func TestHandler_MethodAndGuard(t *testing.T) {
	h := Handler(WithCountries(sample))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/countries", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}

	guarded := Handler(WithCountries(sample), WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("no session")}
	}))
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/countries", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
