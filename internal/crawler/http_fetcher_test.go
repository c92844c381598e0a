package crawler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestSite serves a tiny site: "/" and "/missions/d-rank" render, the
// mission page redirects to "/" without the sid cookie and "/big" is large.
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>home</body></html>"))
	})
	mux.HandleFunc("/missions/d-rank", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>" + r.Header.Get("User-Agent") + "</body></html>"))
	})
	mux.HandleFunc("/mission/cat-capture", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err != nil || c.Value != "abc" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte("<html><body>logged in</body></html>"))
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func noKeepAlive() *http.Client {
	return &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
}

func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	t.Run("sends user agent", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)
		f, err := NewHTTPFetcher(time.Second, WithHTTPClient(noKeepAlive()), WithHTTPUserAgent("missionscan-test"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page, err := f.Fetch(t.Context(), srv.URL+"/missions/d-rank", time.Hour)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(page.HTML, "missionscan-test") {
			t.Errorf("expected user agent echoed, got %q", page.HTML)
		}
		if page.FinalURL != page.URL {
			t.Errorf("expected no redirect, got %q", page.FinalURL)
		}
	})

	t.Run("redirect without login lands on root", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)
		f, err := NewHTTPFetcher(time.Second, WithHTTPClient(noKeepAlive()))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page, err := f.Fetch(t.Context(), srv.URL+"/mission/cat-capture", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !page.RedirectedToRoot() {
			t.Errorf("expected redirect to root, final %q", page.FinalURL)
		}
	})

	t.Run("seeded cookies keep the login", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)
		f, err := NewHTTPFetcher(time.Second,
			WithHTTPClient(noKeepAlive()),
			WithCookies(srv.URL, []*http.Cookie{{Name: "sid", Value: "abc", Path: "/"}}),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page, err := f.Fetch(t.Context(), srv.URL+"/mission/cat-capture", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.RedirectedToRoot() || !strings.Contains(page.HTML, "logged in") {
			t.Errorf("expected logged in page, got %q from %q", page.HTML, page.FinalURL)
		}
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)
		f, err := NewHTTPFetcher(time.Second, WithHTTPClient(noKeepAlive()))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = f.Fetch(t.Context(), srv.URL+"/missing", 0)
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", err)
		}
	})

	t.Run("body is capped", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)
		f, err := NewHTTPFetcher(time.Second, WithHTTPClient(noKeepAlive()), WithMaxBodySize(10))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page, err := f.Fetch(t.Context(), srv.URL+"/big", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.HTML) != 10 {
			t.Errorf("expected 10 bytes, got %d", len(page.HTML))
		}
	})

	t.Run("invalid cookie URL", func(t *testing.T) {
		t.Parallel()

		_, err := NewHTTPFetcher(time.Second, WithCookies("://bad", nil))
		if err == nil {
			t.Error("expected error")
		}
	})
}
