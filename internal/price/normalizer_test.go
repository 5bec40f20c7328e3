package price

import (
	"testing"

	"seoul-store-crawler/internal/models"
	"seoul-store-crawler/pkg/logging"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(logging.Discard())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantType models.PriceType
		wantMin  int
		wantMax  int
	}{
		{"mixed korean amount", "1만2천원", models.PriceSingle, 12000, 12000},
		{"comma arabic", "10,000원", models.PriceSingle, 10000, 10000},
		{"explicit range", "1만원 ~ 3만원", models.PriceRange, 10000, 30000},
		{"range with 부터", "15,000원 부터 25,000원", models.PriceRange, 15000, 25000},
		{"bucket expression", "2만원대", models.PriceRange, 20000, 29999},
		{"conditional per head", "15,000원 (1인)", models.PriceConditional, 15000, 15000},
		{"inquiry", "가격 문의", models.PriceInquiry, 0, 0},
		{"no price", "맛있는 고기집", models.PriceUnknown, 0, 0},
		{"empty", "", models.PriceUnknown, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestNormalizer().Normalize(tt.text)
			if got.Type != tt.wantType {
				t.Fatalf("Normalize(%q).Type = %q, want %q", tt.text, got.Type, tt.wantType)
			}
			if got.MinPrice != tt.wantMin || got.MaxPrice != tt.wantMax {
				t.Errorf("Normalize(%q) = [%d, %d], want [%d, %d]",
					tt.text, got.MinPrice, got.MaxPrice, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestNormalize_TimeBased(t *testing.T) {
	got := newTestNormalizer().Normalize("런치 15,000원 디너 30,000원")

	if got.Type != models.PriceTimeBased {
		t.Fatalf("Type = %q, want time_based", got.Type)
	}
	if got.TimeBased["lunch"] != 15000 || got.TimeBased["dinner"] != 30000 {
		t.Errorf("TimeBased = %v, want lunch=15000 dinner=30000", got.TimeBased)
	}
	if got.MinPrice != 15000 || got.MaxPrice != 30000 {
		t.Errorf("range = [%d, %d], want [15000, 30000]", got.MinPrice, got.MaxPrice)
	}
}

func TestNormalize_MultipleAmountsCollapseToRange(t *testing.T) {
	got := newTestNormalizer().Normalize("삼겹살 12,000원 목살 14,000원")

	if got.Type != models.PriceRange {
		t.Fatalf("Type = %q, want range", got.Type)
	}
	if got.MinPrice != 12000 || got.MaxPrice != 14000 {
		t.Errorf("range = [%d, %d], want [12000, 14000]", got.MinPrice, got.MaxPrice)
	}
}

func TestNormalize_Stats(t *testing.T) {
	n := newTestNormalizer()
	n.Normalize("10,000원")
	n.Normalize("가격 문의")
	n.Normalize("")

	stats := n.Stats()
	if stats.Total != 3 || stats.Single != 1 || stats.Inquiry != 1 || stats.Unknown != 1 {
		t.Errorf("stats = %+v, want total=3 single=1 inquiry=1 unknown=1", stats)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"1만원", 10000},
		{"2만5천원", 25000},
		{"10,000원", 10000},
		{"15000", 15000},
		{"이만원", 20000},
		{"만원", 10000},
		{"", 0},
		{"문의", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := parseAmount(tt.text); got != tt.want {
				t.Errorf("parseAmount(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestParsePureKorean(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"이만오천", 25000},
		{"십만", 100000},
		{"삼만", 30000},
		{"천", 1000},
		{"구", 9},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := parsePureKorean(tt.text); got != tt.want {
				t.Errorf("parsePureKorean(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
