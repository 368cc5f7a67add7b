package vinted

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/arnaudp/vintedflip/internal/model"
)

var (
	itemHrefRe = regexp.MustCompile(`/items/(\d+)`)
	priceRe    = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)\s*€`)
)

// searchWebFallback scrapes the public search page when the JSON API
// refuses to answer. It recovers only id, title and price, which is
// enough for the normalizer; everything else takes its fallback default.
func (c *Client) searchWebFallback(ctx context.Context, keyword string, priceTo int) ([]model.RawListing, error) {
	q := url.Values{}
	q.Set("search_text", keyword)
	q.Set("price_to", strconv.Itoa(priceTo))
	pageURL := c.baseURL + "/catalog?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	c.setIdentityHeaders(req)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search page returned %d", resp.StatusCode)
	}

	reader, err := decompressedReader(resp)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	var listings []model.RawListing
	seen := make(map[string]bool)

	doc.Find(`a[href*="/items/"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		m := itemHrefRe.FindStringSubmatch(href)
		if m == nil || seen[m[1]] {
			return
		}

		title := strings.TrimSpace(s.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(s.Text())
		}

		// The price sits somewhere inside the item card; scan the
		// closest container's text for a euro amount.
		var price float64
		container := s.Closest("div")
		if pm := priceRe.FindStringSubmatch(container.Text()); pm != nil {
			price, _ = strconv.ParseFloat(strings.ReplaceAll(pm[1], ",", "."), 64)
		}

		if title == "" && price == 0 {
			return
		}

		seen[m[1]] = true
		listings = append(listings, model.RawListing{
			ID:    model.ItemID(m[1]),
			Title: title,
			Price: model.Amount(price),
		})
	})

	return listings, nil
}
