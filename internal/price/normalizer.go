// Package price normalizes free-form Korean price text from listing
// pages ("1만2천원", "런치 15,000원 / 디너 3만원", "2만원대") into a
// structured PriceInfo with a confidence score.
package price

import (
	"regexp"
	"strings"
	"sync"

	"seoul-store-crawler/internal/models"
	"seoul-store-crawler/pkg/logging"
)

const amountClass = `[0-9,만천원]+`

// Extraction stages in priority order: inquiry markers short-circuit,
// then range, time-based, conditional and finally single amounts.
var (
	inquiryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`가격\s*문의`),
		regexp.MustCompile(`시세`),
		regexp.MustCompile(`별도`),
		regexp.MustCompile(`추가\s*요금`),
		regexp.MustCompile(`서비스\s*요금`),
	}

	rangePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(` + amountClass + `)\s*[~-]\s*(` + amountClass + `)`),
		regexp.MustCompile(`(` + amountClass + `)\s*부터\s*(` + amountClass + `)`),
		regexp.MustCompile(`(` + amountClass + `)\s*에서\s*(` + amountClass + `)`),
	}

	// "2만원대" style bucket expressions
	bucketRe = regexp.MustCompile(`([0-9]+)만?원?대`)

	timeBasedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`런치\s*(` + amountClass + `)`),
		regexp.MustCompile(`디너\s*(` + amountClass + `)`),
		regexp.MustCompile(`점심\s*(` + amountClass + `)`),
		regexp.MustCompile(`저녁\s*(` + amountClass + `)`),
		regexp.MustCompile(`평일\s*(` + amountClass + `)`),
		regexp.MustCompile(`주말\s*(` + amountClass + `)`),
	}

	conditionalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(` + amountClass + `)\s*\(([^)]+)\)`),
		regexp.MustCompile(`(` + amountClass + `)\s*([0-9]+인\s*이상)`),
	}

	singleRe = regexp.MustCompile(`(` + amountClass + `)원?`)
)

// Stats tracks normalization outcomes by price type.
type Stats struct {
	Total       int64
	Single      int64
	Range       int64
	TimeBased   int64
	Conditional int64
	Inquiry     int64
	Unknown     int64
}

// Normalizer extracts structured prices from listing text. Safe for
// concurrent use; stats are guarded by a mutex.
type Normalizer struct {
	log   *logging.ComponentLogger
	mu    sync.Mutex
	stats Stats
}

func NewNormalizer(log *logging.Logger) *Normalizer {
	return &Normalizer{log: log.WithComponent("price")}
}

// Normalize turns raw price text into a PriceInfo. Text that matches no
// known pattern yields type "unknown" with zero confidence, not an error.
func (n *Normalizer) Normalize(text string) models.PriceInfo {
	info := n.extract(strings.TrimSpace(text))
	n.count(info.Type)
	return info
}

// Stats returns a copy of the running counters.
func (n *Normalizer) Stats() Stats {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stats
}

func (n *Normalizer) extract(text string) models.PriceInfo {
	if text == "" {
		return models.PriceInfo{Type: models.PriceUnknown, Currency: "KRW"}
	}

	for _, re := range inquiryPatterns {
		if re.MatchString(text) {
			return models.PriceInfo{
				Type:         models.PriceInquiry,
				Currency:     "KRW",
				OriginalText: text,
				Confidence:   0.9,
			}
		}
	}

	if info, ok := n.extractRange(text); ok {
		return info
	}
	if info, ok := n.extractTimeBased(text); ok {
		return info
	}
	if info, ok := n.extractConditional(text); ok {
		return info
	}
	if info, ok := n.extractSingle(text); ok {
		return info
	}

	n.log.Debug("no price pattern matched", logging.String("text", text))
	return models.PriceInfo{Type: models.PriceUnknown, Currency: "KRW", OriginalText: text}
}

func (n *Normalizer) extractRange(text string) (models.PriceInfo, bool) {
	for _, re := range rangePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			min, max := parseAmount(m[1]), parseAmount(m[2])
			if min > 0 && max > 0 {
				return models.PriceInfo{
					Type:         models.PriceRange,
					MinPrice:     min,
					MaxPrice:     max,
					Currency:     "KRW",
					OriginalText: text,
					Confidence:   0.9,
				}, true
			}
		}
	}

	if m := bucketRe.FindStringSubmatch(text); m != nil {
		base := atoi(m[1])
		unit := 1000
		if strings.Contains(text, "만") {
			unit = 10000
		}
		return models.PriceInfo{
			Type:         models.PriceRange,
			MinPrice:     base * unit,
			MaxPrice:     (base+1)*unit - 1,
			Currency:     "KRW",
			OriginalText: text,
			Confidence:   0.8,
		}, true
	}

	return models.PriceInfo{}, false
}

func (n *Normalizer) extractTimeBased(text string) (models.PriceInfo, bool) {
	prices := make(map[string]int)
	for _, re := range timeBasedPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if amount := parseAmount(m[1]); amount > 0 {
				prices[timeKey(m[0])] = amount
			}
		}
	}
	if len(prices) == 0 {
		return models.PriceInfo{}, false
	}

	min, max := 0, 0
	for _, p := range prices {
		if min == 0 || p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return models.PriceInfo{
		Type:         models.PriceTimeBased,
		MinPrice:     min,
		MaxPrice:     max,
		Currency:     "KRW",
		TimeBased:    prices,
		OriginalText: text,
		Confidence:   0.85,
	}, true
}

func (n *Normalizer) extractConditional(text string) (models.PriceInfo, bool) {
	for _, re := range conditionalPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if amount := parseAmount(m[1]); amount > 0 {
				return models.PriceInfo{
					Type:         models.PriceConditional,
					MinPrice:     amount,
					MaxPrice:     amount,
					Currency:     "KRW",
					Conditions:   strings.TrimSpace(m[2]),
					OriginalText: text,
					Confidence:   0.8,
				}, true
			}
		}
	}
	return models.PriceInfo{}, false
}

// extractSingle collects every standalone amount above the plausibility
// floor; one amount is a single price, several collapse to a range.
func (n *Normalizer) extractSingle(text string) (models.PriceInfo, bool) {
	var prices []int
	for _, m := range singleRe.FindAllStringSubmatch(text, -1) {
		if amount := parseAmount(m[1]); amount > 1000 {
			prices = append(prices, amount)
		}
	}
	if len(prices) == 0 {
		return models.PriceInfo{}, false
	}

	if len(prices) == 1 {
		return models.PriceInfo{
			Type:         models.PriceSingle,
			MinPrice:     prices[0],
			MaxPrice:     prices[0],
			Currency:     "KRW",
			OriginalText: text,
			Confidence:   0.9,
		}, true
	}

	min, max := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return models.PriceInfo{
		Type:         models.PriceRange,
		MinPrice:     min,
		MaxPrice:     max,
		Currency:     "KRW",
		OriginalText: text,
		Confidence:   0.7,
	}, true
}

func timeKey(matched string) string {
	switch {
	case strings.Contains(matched, "런치"), strings.Contains(matched, "점심"):
		return "lunch"
	case strings.Contains(matched, "디너"), strings.Contains(matched, "저녁"):
		return "dinner"
	case strings.Contains(matched, "평일"):
		return "weekday"
	case strings.Contains(matched, "주말"):
		return "weekend"
	default:
		return "other"
	}
}

func (n *Normalizer) count(t models.PriceType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stats.Total++
	switch t {
	case models.PriceSingle:
		n.stats.Single++
	case models.PriceRange:
		n.stats.Range++
	case models.PriceTimeBased:
		n.stats.TimeBased++
	case models.PriceConditional:
		n.stats.Conditional++
	case models.PriceInquiry:
		n.stats.Inquiry++
	default:
		n.stats.Unknown++
	}
}
