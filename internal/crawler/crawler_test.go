package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seoul-store-crawler/pkg/logging"
)

const listingHTML = `<html><body>
<a data-rid="r100" href="/profile.php?rid=r100">
  <h3 class="dc-card-title">무한리필 소고기집</h3>
  <span class="dc-card-addr">서울 마포구 양화로 12</span>
</a>
<a data-rid="r200" href="/profile.php?rid=r200">
  <h3 class="dc-card-title">고기뷔페</h3>
</a>
<a data-rid="r300" href="/profile.php?rid=r300">
  <span class="dc-card-addr">이름 없는 카드</span>
</a>
</body></html>`

const detailHTML = `<html><body>
<a href="tel:02-1234-5678">02-1234-5678</a>
<div class="addr">서울특별시 마포구 양화로 12 2층</div>
<ul class="dc-tag-list"><li>#고기</li><li>#무한리필</li><li></li></ul>
<span class="rating">4.3</span>
<div class="busi-hours">매일 11:00 - 22:00<br>라스트오더 21:00</div>
</body></html>`

func newTestCrawler(serverURL string) *Crawler {
	c := NewCrawler("test-agent", 0, 0, logging.Discard())
	c.base = serverURL
	return c
}

func TestFetchListing(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(listingHTML))
	}))
	defer srv.Close()

	c := newTestCrawler(srv.URL)
	items, err := c.FetchListing(context.Background(), "무한리필", "rect1")
	if err != nil {
		t.Fatalf("FetchListing: %v", err)
	}

	// r300 has no title and must be dropped.
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].PlaceID != "r100" || items[0].Name != "무한리필 소고기집" {
		t.Errorf("first item = %+v", items[0])
	}
	if items[0].BasicAddress != "서울 마포구 양화로 12" {
		t.Errorf("basic address = %q", items[0].BasicAddress)
	}
	if items[1].PlaceID != "r200" || items[1].BasicAddress != "" {
		t.Errorf("second item = %+v", items[1])
	}
	if items[0].Keyword != "무한리필" || items[0].RectArea != "rect1" {
		t.Errorf("search context not carried: %+v", items[0])
	}
	if gotUA != "test-agent" {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestFetchDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailHTML))
	}))
	defer srv.Close()

	c := newTestCrawler(srv.URL)
	item := ListingItem{
		PlaceID:      "r100",
		DetailURL:    srv.URL + "/profile.php?rid=r100",
		Name:         "무한리필 소고기집",
		BasicAddress: "서울 마포구",
	}

	store, err := c.FetchDetail(context.Background(), item)
	if err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}

	if store.Phone == nil || *store.Phone != "02-1234-5678" {
		t.Errorf("phone = %v", store.Phone)
	}
	if store.Address != "서울특별시 마포구 양화로 12 2층" {
		t.Errorf("address = %q", store.Address)
	}
	if len(store.RawCategories) != 2 || store.RawCategories[0] != "고기" || store.RawCategories[1] != "무한리필" {
		t.Errorf("raw categories = %v", store.RawCategories)
	}
	if store.Rating == nil || *store.Rating != 4.3 {
		t.Errorf("rating = %v", store.Rating)
	}
	if store.HoursText == nil || !strings.Contains(*store.HoursText, "라스트오더 21:00") {
		t.Errorf("hours text = %v", store.HoursText)
	}
	if store.Status != "pending" {
		t.Errorf("status = %q", store.Status)
	}
}

func TestFetchDetail_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestCrawler(srv.URL)
	_, err := c.FetchDetail(context.Background(), ListingItem{DetailURL: srv.URL + "/x"})
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips tags", "<b>무한리필</b> 고기", "무한리필 고기"},
		{"collapses whitespace", "  서울   마포구\n양화로  ", "서울 마포구 양화로"},
		{"entities", "바&amp;그릴&nbsp;하우스", "바&그릴 하우스"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanText(tt.input); got != tt.want {
				t.Errorf("cleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
