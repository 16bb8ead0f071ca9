package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xhttp "RiskVaR/pkg/http"
)

func testServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/candle" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("resolution") != "D" {
			t.Errorf("expected daily resolution, got %q", r.URL.Query().Get("resolution"))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fetch(t *testing.T, srv *httptest.Server) (interface{ Len() int }, error) {
	t.Helper()
	h := NewHistory("test-key", srv.URL, xhttp.NewClient(xhttp.WithTimeout(5*time.Second)), nil)
	s, err := h.FetchDaily(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	return s, err
}

func TestFetchDailyOK(t *testing.T) {
	srv := testServer(t, `{"s":"ok","c":[100,102,101],"t":[1704153600,1704240000,1704326400]}`, 200)
	s, err := fetch(t, srv)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("len: %d", s.Len())
	}
}

func TestFetchDailyNoData(t *testing.T) {
	srv := testServer(t, `{"s":"no_data"}`, 200)
	s, err := fetch(t, srv)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty series, got %d", s.Len())
	}
}

func TestFetchDailyErrorStatus(t *testing.T) {
	srv := testServer(t, `{"s":"error"}`, 200)
	if _, err := fetch(t, srv); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestFetchDailyMismatchedArrays(t *testing.T) {
	srv := testServer(t, `{"s":"ok","c":[100,102],"t":[1704153600]}`, 200)
	if _, err := fetch(t, srv); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestFetchDailyHTTPError(t *testing.T) {
	srv := testServer(t, `rate limit`, 429)
	if _, err := fetch(t, srv); err == nil {
		t.Fatalf("expected http error")
	}
}

func TestFetchDailyEmptyTicker(t *testing.T) {
	h := NewHistory("k", "http://localhost:1", xhttp.NewClient(), nil)
	if _, err := h.FetchDaily(context.Background(), "", time.Now(), time.Now()); err == nil {
		t.Fatalf("expected ticker error")
	}
}
