package testutil

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Route describes the canned response for one host and path.
type Route struct {
	Header   map[string]string
	Err      error
	Body     string
	Location string
	Status   int
	Delay    time.Duration
}

// Transport is an in-process http.RoundTripper serving canned routes keyed by
// host plus path, e.g. "example.com/robots.txt". Unknown routes return 404.
// It records every request so tests can assert what reached the network layer.
type Transport struct {
	Routes map[string]Route
	mu     sync.Mutex
	calls  []string
}

// NewTransport creates a Transport serving the given routes.
func NewTransport(routes map[string]Route) *Transport {
	if routes == nil {
		routes = make(map[string]Route)
	}
	return &Transport{Routes: routes}
}

// SiteRoutes returns routes serving the well-formed fixture site on host.
func SiteRoutes(host string) map[string]Route {
	html := map[string]string{"Content-Type": "text/html; charset=utf-8", "Content-Encoding": "gzip"}
	text := map[string]string{"Content-Type": "text/plain"}
	return map[string]Route{
		host + "/":              {Status: 200, Body: WellFormedHTML, Header: html},
		host + "/llms.txt":      {Status: 200, Body: LlmsTxt, Header: text},
		host + "/robots.txt":    {Status: 200, Body: RobotsTxt, Header: text},
		host + "/sitemap.xml":   {Status: 200, Body: SitemapXML, Header: map[string]string{"Content-Type": "application/xml"}},
		host + "/llms-full.txt": {Status: 200, Body: LlmsFullTxt, Header: text},
		host + "/ai.txt":        {Status: 200, Body: AiTxt, Header: text},
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	path := req.URL.Path
	if path == "" {
		path = "/"
	}
	key := req.URL.Host + path

	t.mu.Lock()
	t.calls = append(t.calls, key)
	route, ok := t.Routes[key]
	t.mu.Unlock()

	if route.Delay > 0 {
		select {
		case <-time.After(route.Delay):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}
	if route.Err != nil {
		return nil, route.Err
	}
	if !ok {
		route = Route{Status: http.StatusNotFound, Body: "not found"}
	}
	if route.Status == 0 {
		route.Status = http.StatusOK
	}

	header := make(http.Header)
	for name, value := range route.Header {
		header.Set(name, value)
	}
	if route.Location != "" {
		header.Set("Location", route.Location)
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", route.Status, http.StatusText(route.Status)),
		StatusCode:    route.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(route.Body)),
		ContentLength: int64(len(route.Body)),
		Request:       req,
	}, nil
}

// Calls returns the keys of every request seen so far.
func (t *Transport) Calls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.calls...)
}

// Called reports whether key was requested.
func (t *Transport) Called(key string) bool {
	for _, call := range t.Calls() {
		if call == key {
			return true
		}
	}
	return false
}
