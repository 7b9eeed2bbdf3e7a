package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchWildcard(t *testing.T) {
	cases := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"/api/v1/runs/abc", "/api/v1/runs/*", true},
		{"/api/v1/runs/abc/report", "/api/v1/runs/*/report", true},
		{"/api/v1/runs/abc/errors", "/api/v1/runs/*/report", false},
		{"/api/v1/runs/abc/files/daily_revenue.csv", "/api/v1/runs/*/files/*", true},
		{"/api/v1/runs", "/api/v1/runs/*", false},
		{"/api/v1/runs/abc/report", "/api/v1/runs/*", true}, // trailing * spans segments
		{"/api/v1/other/abc", "/api/v1/runs/*", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MatchWildcard(tc.path, tc.pattern), "%s vs %s", tc.path, tc.pattern)
	}
}

func TestPathSegment(t *testing.T) {
	assert.Equal(t, "runs", PathSegment("/api/v1/runs/abc", 2))
	assert.Equal(t, "abc", PathSegment("/api/v1/runs/abc", 3))
	assert.Equal(t, "", PathSegment("/api/v1/runs/abc", 9))
	assert.Equal(t, "", PathSegment("/api/v1/runs/abc", -1))
}

func TestRouterDispatch(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("list"))
	})
	r.GET("/api/v1/runs/*/report", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("report"))
	})
	r.GET("/api/v1/runs/*", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("detail"))
	})

	cases := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/api/v1/runs", http.StatusOK, "list"},
		{http.MethodGet, "/api/v1/runs/abc/report", http.StatusOK, "report"},
		{http.MethodGet, "/api/v1/runs/abc", http.StatusOK, "detail"},
		{http.MethodDelete, "/api/v1/runs/abc", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
		if tc.body != "" {
			assert.Equal(t, tc.body, rec.Body.String())
		}
	}
}

func TestRouterRegistrationOrderWins(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs/*/report", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("report"))
	})
	// Generic pattern registered last must not shadow the sub-resource route.
	r.GET("/api/v1/runs/*", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("detail"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc/report", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "report", rec.Body.String())
}

func TestRouterMount(t *testing.T) {
	r := New()
	r.Mount("/swagger/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("docs"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "docs", rec.Body.String())
}
