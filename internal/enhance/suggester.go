package enhance

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"seoul-store-crawler/pkg/logging"

	"github.com/sashabaranov/go-openai"
)

// UsageStats tracks OpenAI API consumption for the suggester.
type UsageStats struct {
	TotalTokens   int
	TotalRequests int
}

// Suggester asks a chat model for category tags when rule-based mapping
// comes up empty. Results are cached by store fingerprint so re-running the
// pipeline does not re-bill the same stores.
type Suggester struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	log         *logging.ComponentLogger

	mu    sync.RWMutex
	cache map[string][]string
	usage UsageStats
}

const suggestCacheMax = 1000

func NewSuggester(apiKey, model string, temperature float32, timeout time.Duration, log *logging.Logger) *Suggester {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &Suggester{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		log:         log.WithComponent("suggester"),
		cache:       make(map[string][]string),
	}
}

// Usage returns current API usage statistics.
func (s *Suggester) Usage() UsageStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage
}

// SuggestCategories returns candidate category tags for a store. The reply is
// requested as a bare comma-separated list to keep completions short.
func (s *Suggester) SuggestCategories(ctx context.Context, name string, rawCategories []string) ([]string, error) {
	key := cacheKey(name, rawCategories)

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf("가게 이름: %s\n원본 카테고리: %s\n\n이 가게에 맞는 음식 카테고리를 한국어로 최대 3개, 쉼표로만 구분해서 답하세요.",
		name, strings.Join(rawCategories, ", "))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "당신은 한국 음식점 카테고리 분류 도우미입니다. 카테고리 이름만 쉼표로 구분해 답합니다.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: s.temperature,
		MaxTokens:   50, // a short list of tags, nothing more
	})
	if err != nil {
		return nil, fmt.Errorf("category suggestion failed: %w", err)
	}

	suggestions := parseSuggestions(resp.Choices[0].Message.Content)

	s.mu.Lock()
	s.usage.TotalTokens += resp.Usage.PromptTokens + resp.Usage.CompletionTokens
	s.usage.TotalRequests++
	if len(s.cache) < suggestCacheMax {
		s.cache[key] = suggestions
	}
	s.mu.Unlock()

	s.log.Debug("categories suggested",
		logging.String("store", name),
		logging.Int("count", len(suggestions)))
	return suggestions, nil
}

func cacheKey(name string, rawCategories []string) string {
	sum := md5.Sum([]byte(name + "|" + strings.Join(rawCategories, ",")))
	return hex.EncodeToString(sum[:])
}

func parseSuggestions(content string) []string {
	var out []string
	for _, part := range strings.Split(content, ",") {
		tag := strings.Trim(strings.TrimSpace(part), `"'.#`)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
