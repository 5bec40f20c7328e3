// Package category maps raw listing categories and store names onto the
// standard tag vocabulary used by search. Rules are keyword based; a YAML
// file can replace the built-in set without a rebuild.
package category

import (
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"seoul-store-crawler/pkg/logging"
)

// Rules holds the keyword mapping configuration.
type Rules struct {
	// Mapping assigns standard tags to a keyword found in a raw
	// category, store name or menu item.
	Mapping map[string][]string `yaml:"mapping"`
	// Exclude lists regular expressions for raw categories that carry no
	// food signal (neighborhood hashtags, promo words).
	Exclude []string `yaml:"exclude"`
}

// DefaultRules returns the built-in keyword rules.
func DefaultRules() Rules {
	return Rules{
		Mapping: map[string][]string{
			"무한리필": {"무한리필"},
			"뷔페":   {"뷔페"},
			"셀프바":  {"뷔페"},
			"삼겹살":  {"한식", "고기", "돼지고기", "구이"},
			"갈비":   {"한식", "고기", "소고기", "구이"},
			"소고기":  {"한식", "고기", "소고기", "구이"},
			"돼지고기": {"한식", "고기", "돼지고기", "구이"},
			"닭고기":  {"한식", "고기", "닭고기", "구이"},
			"초밥":   {"일식", "해산물", "회"},
			"스시":   {"일식", "해산물", "회"},
			"사시미":  {"일식", "해산물", "회"},
			"회":    {"한식", "해산물", "회"},
			"해산물":  {"해산물"},
			"중국음식": {"중식"},
			"짜장면":  {"중식", "면류"},
			"짬뽕":   {"중식", "면류"},
			"파스타":  {"양식", "면류"},
			"피자":   {"양식"},
			"스테이크": {"양식", "고기", "소고기", "구이"},
			"구이":   {"구이"},
			"찜":    {"찜"},
			"탕":    {"탕"},
			"볶음":   {"볶음"},
			"튀김":   {"튀김"},
			"가족":   {"가족"},
			"회식":   {"회식"},
			"데이트":  {"데이트"},
			"혼밥":   {"혼밥"},
		},
		Exclude: []string{
			`.*맛집$`,
			`.*역$`,
			`.*구$`,
			`할인`,
			`이벤트`,
			`오픈`,
			`신규`,
			`인기`,
			`유명`,
			`맛있는`,
			`좋은`,
		},
	}
}

// Mapper applies keyword rules to listing data. Safe for concurrent use
// after construction.
type Mapper struct {
	mu      sync.RWMutex
	rules   Rules
	exclude []*regexp.Regexp
	log     *logging.ComponentLogger
}

// NewMapper builds a mapper from the built-in rules, replaced by the YAML
// file at rulesPath when one is given. A broken override file is reported
// and the built-in rules stay active.
func NewMapper(rulesPath string, log *logging.Logger) *Mapper {
	m := &Mapper{log: log.WithComponent("category")}
	m.apply(DefaultRules())

	if rulesPath != "" {
		if err := m.LoadRules(rulesPath); err != nil {
			m.log.Error("category rules override not loaded, using built-in rules", err,
				logging.String("path", rulesPath))
		} else {
			m.log.Info("category rules loaded", logging.String("path", rulesPath))
		}
	}
	return m
}

// LoadRules replaces the active rules with the YAML file at path.
func (m *Mapper) LoadRules(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return err
	}
	m.apply(rules)
	return nil
}

func (m *Mapper) apply(rules Rules) {
	exclude := make([]*regexp.Regexp, 0, len(rules.Exclude))
	for _, pat := range rules.Exclude {
		re, err := regexp.Compile(pat)
		if err != nil {
			m.log.Warn("skipping invalid exclude pattern", logging.String("pattern", pat))
			continue
		}
		exclude = append(exclude, re)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = rules
	m.exclude = exclude
}

// Map resolves raw categories plus the store name to a sorted set of
// standard tags. Unknown inputs produce an empty slice, not an error.
func (m *Mapper) Map(rawCategories []string, storeName string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make(map[string]bool)

	for _, raw := range rawCategories {
		cleaned := cleanCategory(raw)
		if cleaned == "" || m.excluded(cleaned) {
			continue
		}
		for keyword, std := range m.rules.Mapping {
			if strings.Contains(cleaned, keyword) {
				for _, tag := range std {
					tags[tag] = true
				}
			}
		}
	}

	if storeName != "" {
		for keyword, std := range m.rules.Mapping {
			if strings.Contains(storeName, keyword) {
				for _, tag := range std {
					tags[tag] = true
				}
			}
		}
	}

	out := make([]string, 0, len(tags))
	for tag := range tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (m *Mapper) excluded(category string) bool {
	for _, re := range m.exclude {
		if re.MatchString(category) {
			return true
		}
	}
	return false
}

// cleanCategory strips hashtag markers and surrounding whitespace.
func cleanCategory(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "#", ""))
}
