package vinted

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
)

const searchPayload = `{
	"items": [
		{
			"id": 2001,
			"title": "Nike Air Max 90",
			"price": "45.0",
			"brand_title": "Nike",
			"size_title": "42",
			"status": "Très bon état",
			"photo": {"full_size_url": "https://img.example/1.jpg"},
			"user": {"login": "sneakerfan", "average_positive_feedback": 98.5}
		},
		{
			"id": "2002",
			"title": "Sac Gucci vintage",
			"price": 80,
			"brand_title": "Gucci",
			"size_title": "",
			"status": "Bon état",
			"photo": null,
			"user": {"login": "luxeparis", "average_positive_feedback": 100}
		}
	]
}`

func newTestClient(serverURL string, timeout time.Duration) *Client {
	return NewClient(Config{BaseURL: serverURL, Timeout: timeout})
}

func TestSearchSuccess(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	c := newTestClient(server.URL, time.Second)
	res := c.Search(context.Background(), "nike air", 50.9, 20)

	if !res.OK() {
		t.Fatalf("expected OK result, got status %s (err %v)", res.Status, res.Err)
	}
	if len(res.Listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(res.Listings))
	}

	first := res.Listings[0]
	if string(first.ID) != "2001" {
		t.Errorf("numeric id not normalized: %q", first.ID)
	}
	if float64(first.Price) != 45.0 {
		t.Errorf("string price not parsed: %v", first.Price)
	}
	if first.Photo == nil || first.Photo.FullSizeURL != "https://img.example/1.jpg" {
		t.Errorf("photo not mapped: %+v", first.Photo)
	}

	second := res.Listings[1]
	if string(second.ID) != "2002" || float64(second.Price) != 80 {
		t.Errorf("string id / numeric price not handled: %+v", second)
	}

	// price_to must be integer-truncated, ordering newest first.
	for _, want := range []string{"search_text=nike+air", "price_to=50", "order=newest_first", "per_page=20"} {
		if !bytes.Contains([]byte(gotQuery), []byte(want)) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server.URL, time.Second)
	res := c.Search(context.Background(), "nike", 50, 20)

	if res.Status != StatusHTTP {
		t.Fatalf("expected http_error status, got %s", res.Status)
	}
	if res.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected recorded status 500, got %d", res.HTTPStatus)
	}
	if len(res.Listings) != 0 {
		t.Errorf("failed search must yield empty listings, got %d", len(res.Listings))
	}
}

func TestSearchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	c := newTestClient(server.URL, 30*time.Millisecond)
	res := c.Search(context.Background(), "nike", 50, 20)

	if res.Status != StatusTimeout {
		t.Fatalf("expected timeout status, got %s (err %v)", res.Status, res.Err)
	}
	if len(res.Listings) != 0 {
		t.Error("timeout must yield empty listings")
	}
}

func TestSearchDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	c := newTestClient(server.URL, time.Second)
	res := c.Search(context.Background(), "nike", 50, 20)

	if res.Status != StatusDecode {
		t.Fatalf("expected decode_error status, got %s", res.Status)
	}
}

func TestSearchGzipResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(searchPayload))
		_ = gz.Close()
	}))
	defer server.Close()

	c := newTestClient(server.URL, time.Second)
	res := c.Search(context.Background(), "nike", 50, 20)

	if !res.OK() || len(res.Listings) != 2 {
		t.Fatalf("gzip response not decoded: status %s, %d listings", res.Status, len(res.Listings))
	}
}

func TestSearchBrotliResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		_, _ = bw.Write([]byte(searchPayload))
		_ = bw.Close()
	}))
	defer server.Close()

	c := newTestClient(server.URL, time.Second)
	res := c.Search(context.Background(), "nike", 50, 20)

	if !res.OK() || len(res.Listings) != 2 {
		t.Fatalf("brotli response not decoded: status %s, %d listings", res.Status, len(res.Listings))
	}
}

func TestSearchIdentityHeaderFromPool(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, time.Second)
	c.Search(context.Background(), "nike", 50, 20)

	found := false
	for _, headers := range headerPool {
		if headers["User-Agent"] == gotUA {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("user agent %q is not from the identity pool", gotUA)
	}
}

func TestSearchUsesCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	c := newTestClient(server.URL, time.Second)

	first := c.Search(context.Background(), "nike", 50, 20)
	second := c.Search(context.Background(), "nike", 50, 20)

	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected 1 upstream request, got %d", hits)
	}
	if len(first.Listings) != len(second.Listings) {
		t.Error("cached result differs from fresh result")
	}
}

func TestSearchWebFallbackOnBlock(t *testing.T) {
	const page = `<html><body><div class="feed-grid">
		<div class="item-card">
			<a href="/items/12345-nike-air-max" title="Nike Air Max">Nike Air Max</a>
			<span class="price">25,00 €</span>
		</div>
		<div class="item-card">
			<a href="/items/67890-jordan-1" title="Jordan 1 mid">Jordan 1 mid</a>
			<span class="price">40,50 €</span>
		</div>
		<div class="item-card">
			<a href="/items/12345-nike-air-max">duplicate of first</a>
		</div>
	</div></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/catalog/items" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	c := newTestClient(server.URL, time.Second)
	res := c.Search(context.Background(), "nike", 50, 20)

	if !res.OK() {
		t.Fatalf("expected fallback to rescue blocked search, got status %s", res.Status)
	}
	if len(res.Listings) != 2 {
		t.Fatalf("expected 2 deduplicated listings from fallback, got %d", len(res.Listings))
	}
	if string(res.Listings[0].ID) != "12345" || res.Listings[0].Title != "Nike Air Max" {
		t.Errorf("unexpected first fallback listing: %+v", res.Listings[0])
	}
	if float64(res.Listings[0].Price) != 25.0 {
		t.Errorf("comma price not parsed: %v", res.Listings[0].Price)
	}
}

func TestItemURL(t *testing.T) {
	if got := ItemURL("42"); got != "https://www.vinted.fr/items/42" {
		t.Errorf("unexpected item url %q", got)
	}
}
