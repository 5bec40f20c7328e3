// Package crawler fetches store listings and detail pages from DiningCode.
// Listing pages are plain HTML; the interesting attributes (data-rid, card
// title, address) are extracted with targeted patterns rather than a full DOM
// parse, which keeps the fetch path dependency-free and fast.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"seoul-store-crawler/internal/models"
	"seoul-store-crawler/pkg/circuit"
	"seoul-store-crawler/pkg/errors"
	"seoul-store-crawler/pkg/logging"
	"seoul-store-crawler/pkg/metrics"
)

const baseURL = "https://www.diningcode.com"

var (
	storeCardRe = regexp.MustCompile(`(?s)<a[^>]+data-rid="([^"]+)"[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	cardTitleRe = regexp.MustCompile(`(?s)class="(?:dc-card-title|tit)"[^>]*>(.*?)<`)
	cardAddrRe  = regexp.MustCompile(`(?s)class="(?:dc-card-addr|addr)"[^>]*>(.*?)<`)

	telLinkRe    = regexp.MustCompile(`href="tel:([^"]+)"`)
	detailAddrRe = regexp.MustCompile(`(?s)class="(?:addr|address)"[^>]*>(.*?)</`)
	tagListRe    = regexp.MustCompile(`(?s)<ul[^>]+class="dc-tag-list"[^>]*>(.*?)</ul>`)
	tagItemRe    = regexp.MustCompile(`(?s)<li[^>]*>(.*?)</li>`)
	ratingRe     = regexp.MustCompile(`(?s)class="(?:rating|score)"[^>]*>\s*([0-9.]+)`)
	hoursBlockRe = regexp.MustCompile(`(?s)class="(?:busi-hours|open-hour|time-info)"[^>]*>(.*?)</(?:div|section)>`)
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
)

// ListingItem is one store card from a listing page, before the detail fetch.
type ListingItem struct {
	PlaceID      string
	DetailURL    string
	Name         string
	BasicAddress string
	Keyword      string
	RectArea     string
}

type Crawler struct {
	client    *http.Client
	base      string
	userAgent string
	delay     time.Duration
	breaker   *circuit.Breaker
	log       *logging.ComponentLogger

	pagesFetched *metrics.Counter
	fetchErrors  *metrics.Counter
	fetchSeconds *metrics.Histogram
}

func NewCrawler(userAgent string, timeout, delay time.Duration, log *logging.Logger) *Crawler {
	return &Crawler{
		client:    &http.Client{Timeout: timeout},
		base:      baseURL,
		userAgent: userAgent,
		delay:     delay,
		breaker: circuit.New(circuit.Config{
			Name:              "diningcode",
			OpenFor:           time.Minute,
			MaxConsecFailures: 5,
			WindowSize:        20,
			FailureRate:       0.6,
		}, log),
		log:          log.WithComponent("crawler"),
		pagesFetched: metrics.Default.Counter("crawl_pages_total", "Pages fetched from DiningCode"),
		fetchErrors:  metrics.Default.Counter("crawl_errors_total", "Failed page fetches"),
		fetchSeconds: metrics.Default.Histogram("crawl_fetch_seconds",
			"Page fetch latency", []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}),
	}
}

// FetchListing collects store cards for a keyword within a map rectangle.
// The rect parameter follows DiningCode's "lng1,lat1,lng2,lat2" convention.
func (c *Crawler) FetchListing(ctx context.Context, keyword, rect string) ([]ListingItem, error) {
	listURL := fmt.Sprintf("%s/list.dc?query=%s&rect=%s", c.base, url.QueryEscape(keyword), url.QueryEscape(rect))

	body, err := c.fetch(ctx, listURL)
	if err != nil {
		return nil, err
	}

	var items []ListingItem
	for _, m := range storeCardRe.FindAllStringSubmatch(body, -1) {
		item := ListingItem{
			PlaceID:   m[1],
			DetailURL: m[2],
			Keyword:   keyword,
			RectArea:  rect,
		}
		card := m[3]
		if t := cardTitleRe.FindStringSubmatch(card); t != nil {
			item.Name = cleanText(t[1])
		}
		if a := cardAddrRe.FindStringSubmatch(card); a != nil {
			item.BasicAddress = cleanText(a[1])
		}
		if item.PlaceID != "" && item.Name != "" {
			items = append(items, item)
		}
	}

	c.log.Info("listing fetched",
		logging.String("keyword", keyword),
		logging.String("rect", rect),
		logging.Int("stores", len(items)))
	return items, nil
}

// FetchDetail fills in a store record from its detail page. Fields that fail
// to extract are left empty; a store with just the listing data is still
// worth keeping.
func (c *Crawler) FetchDetail(ctx context.Context, item ListingItem) (*models.Store, error) {
	detailURL := item.DetailURL
	if !strings.HasPrefix(detailURL, "http") {
		detailURL = c.base + detailURL
	}

	body, err := c.fetch(ctx, detailURL)
	if err != nil {
		return nil, err
	}

	store := &models.Store{
		DiningcodePlaceID: item.PlaceID,
		DetailURL:         detailURL,
		Name:              item.Name,
		BasicAddress:      item.BasicAddress,
		Keyword:           item.Keyword,
		RectArea:          item.RectArea,
		Status:            models.StatusPending,
	}

	if m := telLinkRe.FindStringSubmatch(body); m != nil {
		if phone := cleanText(m[1]); phone != "" {
			store.Phone = &phone
		}
	}
	if m := detailAddrRe.FindStringSubmatch(body); m != nil {
		if addr := cleanText(m[1]); addr != "" {
			store.Address = addr
		}
	}
	if m := tagListRe.FindStringSubmatch(body); m != nil {
		for _, li := range tagItemRe.FindAllStringSubmatch(m[1], -1) {
			tag := strings.TrimPrefix(cleanText(li[1]), "#")
			if tag != "" {
				store.RawCategories = append(store.RawCategories, tag)
			}
		}
	}
	if m := ratingRe.FindStringSubmatch(body); m != nil {
		if rating, err := strconv.ParseFloat(m[1], 64); err == nil {
			store.Rating = &rating
		}
	}
	if m := hoursBlockRe.FindStringSubmatch(body); m != nil {
		if hours := cleanText(m[1]); hours != "" {
			store.HoursText = &hours
		}
	}

	c.log.Info("detail fetched",
		logging.String("place_id", item.PlaceID),
		logging.String("name", item.Name))
	return store, nil
}

func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, error) {
	// Pace requests so we stay a polite guest on the site.
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return "", errors.NewScrape("fetch", rawURL, ctx.Err())
		}
	}

	var body string
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		timer := c.fetchSeconds.Start()
		defer timer.Observe()
		var err error
		body, err = c.doFetch(ctx, rawURL)
		return err
	})
	if err != nil {
		c.fetchErrors.Inc()
		if err == circuit.ErrOpen {
			return "", errors.NewScrape("fetch", rawURL, err)
		}
		return "", err
	}
	c.pagesFetched.Inc()
	return body, nil
}

func (c *Crawler) doFetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.NewScrape("fetch", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.NewScrape("fetch", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewScrape("fetch", rawURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewScrape("read", rawURL, err)
	}
	return string(body), nil
}

// cleanText strips residual markup and collapses whitespace from an
// extracted HTML fragment.
func cleanText(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	return strings.Join(strings.Fields(s), " ")
}
