// Package router is a small net/http router: exact method+path routes,
// single-segment wildcards, prefix mounts, and a colored access log.
package router

import (
	"log"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type Router struct {
	routes map[string]HandlerFunc // key = METHOD:PATTERN
	paths  []string               // patterns in registration order
	mounts map[string]http.Handler
}

func New() *Router {
	return &Router{
		routes: make(map[string]HandlerFunc),
		mounts: make(map[string]http.Handler),
	}
}

func (r *Router) register(method, pattern string, handler HandlerFunc) {
	key := method + ":" + pattern
	if _, dup := r.routes[key]; !dup {
		r.paths = append(r.paths, pattern)
	}
	r.routes[key] = handler
}

func (r *Router) GET(pattern string, handler HandlerFunc)    { r.register(http.MethodGet, pattern, handler) }
func (r *Router) POST(pattern string, handler HandlerFunc)   { r.register(http.MethodPost, pattern, handler) }
func (r *Router) PUT(pattern string, handler HandlerFunc)    { r.register(http.MethodPut, pattern, handler) }
func (r *Router) DELETE(pattern string, handler HandlerFunc) { r.register(http.MethodDelete, pattern, handler) }

// Mount registers a plain http.Handler for every path under prefix. Used for
// handlers that do their own routing, like the swagger UI.
func (r *Router) Mount(prefix string, handler http.Handler) {
	r.mounts[prefix] = handler
}

// ServeHTTP dispatches a request: exact route, then wildcard routes in
// registration order, then mounts, and logs the outcome.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	r.dispatch(lrw, req)

	duration := time.Since(start)
	log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
		colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
		methodColor(req.Method), req.Method, colorReset,
		req.URL.Path,
		statusColor(lrw.statusCode), lrw.statusCode, colorReset,
		colorBlue, duration, colorReset,
	)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	if h, ok := r.routes[req.Method+":"+req.URL.Path]; ok {
		h(w, req)
		return
	}

	pathMatched := false
	for _, pattern := range r.paths {
		if !strings.Contains(pattern, "*") || !MatchWildcard(req.URL.Path, pattern) {
			continue
		}
		pathMatched = true
		if h, ok := r.routes[req.Method+":"+pattern]; ok {
			h(w, req)
			return
		}
	}

	for prefix, h := range r.mounts {
		if strings.HasPrefix(req.URL.Path, prefix) {
			h.ServeHTTP(w, req)
			return
		}
	}

	if pathMatched {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// MatchWildcard reports whether path matches pattern, where each "*" in the
// pattern matches exactly one path segment. A trailing "*" matches one or
// more remaining segments.
func MatchWildcard(path, pattern string) bool {
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")
	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")

	if len(patSegs) > 0 && patSegs[len(patSegs)-1] == "*" {
		if len(pathSegs) < len(patSegs) {
			return false
		}
		for i := 0; i < len(patSegs)-1; i++ {
			if patSegs[i] != "*" && patSegs[i] != pathSegs[i] {
				return false
			}
		}
		return true
	}

	if len(pathSegs) != len(patSegs) {
		return false
	}
	for i, seg := range patSegs {
		if seg != "*" && seg != pathSegs[i] {
			return false
		}
	}
	return true
}

// PathSegment returns the nth segment (0-based) of a request path, or "".
func PathSegment(path string, n int) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if n < 0 || n >= len(segs) {
		return ""
	}
	return segs[n]
}

// Patterns returns the registered route patterns, sorted, for testing.
func (r *Router) Patterns() []string {
	out := append([]string{}, r.paths...)
	sort.Strings(out)
	return out
}

// Start runs the HTTP server on addr.
func (r *Router) Start(addr string) {
	log.Printf("server listening on %s%s%s", colorGreen, addr, colorReset)
	log.Fatal(http.ListenAndServe(addr, r))
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	case http.MethodPut:
		return colorYellow
	case http.MethodDelete:
		return colorRed
	default:
		return colorCyan
	}
}
