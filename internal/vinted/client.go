package vinted

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/arnaudp/vintedflip/internal/cache"
	"github.com/arnaudp/vintedflip/internal/model"
)

const (
	defaultBaseURL = "https://www.vinted.fr"
	defaultTimeout = 10 * time.Second
	searchCacheTTL = 2 * time.Minute
)

// Status classifies the outcome of one search call.
type Status string

const (
	StatusOK        Status = "ok"
	StatusTimeout   Status = "timeout"
	StatusHTTP      Status = "http_error"
	StatusDecode    Status = "decode_error"
	StatusTransport Status = "transport_error"
)

// Result is the typed outcome of one keyword search. A failed search
// carries an empty listing slice and a reason; the client never returns
// a Go error to its caller, so one keyword's failure cannot abort a
// batch.
type Result struct {
	Keyword    string
	Listings   []model.RawListing
	Status     Status
	HTTPStatus int
	Err        error
}

// OK reports whether the search completed against the upstream.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// headerPool holds the identity header sets rotated across calls. One
// set is picked at random per call and never changes mid-call.
var headerPool = []map[string]string{
	{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept-Language": "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7",
	},
	{
		"User-Agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
		"Accept-Language": "fr-FR,fr;q=0.9",
	},
	{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Accept-Language": "fr-FR,fr;q=0.8,en;q=0.6",
	},
	{
		"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
		"Accept-Language": "fr-FR,fr;q=0.9,en;q=0.5",
	},
}

// Config configures the catalog client.
type Config struct {
	BaseURL  string
	Timeout  time.Duration // per-call timeout
	CacheTTL time.Duration // search response cache TTL, 0 for the default
}

// Client talks to the catalog search endpoint. Safe for concurrent use;
// all searches share one bounded connection pool.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    *cache.Cache
	cacheTTL time.Duration
}

// NewClient builds a client with a connection pool capped at 100 total
// idle connections and 10 per host, so a wide fan-out cannot overwhelm
// the upstream.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = searchCacheTTL
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: cfg.Timeout, Transport: transport},
		cache:    cache.New(),
		cacheTTL: cfg.CacheTTL,
	}
}

// ItemURL returns the canonical listing page for an item id.
func ItemURL(id string) string {
	return defaultBaseURL + "/items/" + id
}

// Search runs one keyword search against the catalog, newest first,
// bounded by maxPrice (integer-truncated) and perPage. Failures degrade
// to an empty result with a typed reason.
func (c *Client) Search(ctx context.Context, keyword string, maxPrice float64, perPage int) Result {
	res := Result{Keyword: keyword, Status: StatusOK}
	priceTo := int(maxPrice)

	cacheKey := cache.SearchKey(keyword, priceTo)
	var cached []model.RawListing
	if found, _ := c.cache.Get(cacheKey, &cached); found {
		res.Listings = cached
		return res
	}

	q := url.Values{}
	q.Set("search_text", keyword)
	q.Set("price_to", fmt.Sprintf("%d", priceTo))
	q.Set("order", "newest_first")
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	searchURL := c.baseURL + "/api/v2/catalog/items?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		res.Status, res.Err = StatusTransport, err
		log.Printf("vinted: build request for %q: %v", keyword, err)
		return res
	}
	c.setIdentityHeaders(req)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			res.Status, res.Err = StatusTimeout, err
			log.Printf("vinted: timeout searching %q", keyword)
		} else {
			res.Status, res.Err = StatusTransport, err
			log.Printf("vinted: search %q: %v", keyword, err)
		}
		return res
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Blocked responses get one best-effort pass over the public
		// search page before giving up on the keyword.
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
			if listings, ferr := c.searchWebFallback(ctx, keyword, priceTo); ferr == nil && len(listings) > 0 {
				log.Printf("vinted: API blocked (%d) for %q, web fallback returned %d listings",
					resp.StatusCode, keyword, len(listings))
				res.Listings = listings
				return res
			}
		}
		res.Status, res.HTTPStatus = StatusHTTP, resp.StatusCode
		log.Printf("vinted: search %q failed with status %d", keyword, resp.StatusCode)
		return res
	}

	reader, err := decompressedReader(resp)
	if err != nil {
		res.Status, res.Err = StatusDecode, err
		log.Printf("vinted: decompress response for %q: %v", keyword, err)
		return res
	}

	var payload struct {
		Items []model.RawListing `json:"items"`
	}
	if err := json.NewDecoder(reader).Decode(&payload); err != nil {
		res.Status, res.Err = StatusDecode, err
		log.Printf("vinted: decode response for %q: %v", keyword, err)
		return res
	}

	res.Listings = payload.Items
	_ = c.cache.Put(cacheKey, payload.Items, c.cacheTTL)
	return res
}

// setIdentityHeaders applies one randomly chosen header set from the
// pool, so concurrent searches do not share a fingerprint.
func (c *Client) setIdentityHeaders(req *http.Request) {
	headers := headerPool[rand.Intn(len(headerPool))]
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// decompressedReader unwraps gzip and brotli response bodies.
func decompressedReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
