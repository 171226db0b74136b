package semantic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// ErrEmptyText is returned when a similarity is requested for empty input.
// Empty strings are an invalid argument at this boundary; callers that may
// hold empty text (the coherence analyzer) must filter before calling.
var ErrEmptyText = errors.New("encoder: empty text")

// TextEncoder computes the semantic similarity of two strings as a value in
// [0,1]. Implementations must be symmetric and return ~1.0 for identical
// input.
type TextEncoder interface {
	Similarity(a, b string) (float64, error)
}

var (
	defaultEncoder     TextEncoder
	defaultEncoderOnce sync.Once
)

// DefaultEncoder returns the process-wide encoder, initializing it lazily on
// first use. Repeated calls are cheap no-ops after the first.
func DefaultEncoder() TextEncoder {
	defaultEncoderOnce.Do(func() {
		if defaultEncoder == nil {
			defaultEncoder = NewLexicalEncoder()
		}
	})
	return defaultEncoder
}

// SetDefaultEncoder installs enc as the process-wide encoder. It must be
// called before the first DefaultEncoder call to take effect.
func SetDefaultEncoder(enc TextEncoder) {
	defaultEncoder = enc
}

// HTTPEncoder delegates similarity scoring to an external embedding service.
type HTTPEncoder struct {
	baseURL string
	client  *http.Client
}

// NewHTTPEncoder creates an encoder backed by the embedding service at
// baseURL. The service exposes POST /similarity accepting
// {"text_a": ..., "text_b": ...} and returning {"similarity": ...}.
func NewHTTPEncoder(baseURL string) *HTTPEncoder {
	return &HTTPEncoder{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type similarityRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

type similarityResponse struct {
	Similarity float64 `json:"similarity"`
}

func (e *HTTPEncoder) Similarity(a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, ErrEmptyText
	}

	body, err := json.Marshal(similarityRequest{TextA: a, TextB: b})
	if err != nil {
		return 0, fmt.Errorf("failed to encode similarity request: %w", err)
	}

	resp, err := e.client.Post(e.baseURL+"/similarity", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("encoder service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("encoder service returned status %d", resp.StatusCode)
	}

	var result similarityResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode similarity response: %w", err)
	}

	return clamp01(result.Similarity), nil
}

// LexicalEncoder is a deterministic fallback that scores similarity by
// fuzzy token overlap. It is no substitute for a real embedding model but
// keeps the semantic pipeline functional when none is configured.
type LexicalEncoder struct{}

// NewLexicalEncoder creates a new LexicalEncoder instance
func NewLexicalEncoder() *LexicalEncoder {
	return &LexicalEncoder{}
}

// spanishStopwords are excluded from token overlap so that function words do
// not dominate the score.
var spanishStopwords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true, "un": true, "una": true,
	"de": true, "del": true, "en": true, "y": true, "o": true, "a": true,
	"que": true, "se": true, "por": true, "para": true, "con": true,
	"su": true, "sus": true, "es": true, "al": true, "lo": true,
	"the": true, "of": true, "and": true, "to": true, "in": true, "for": true,
}

func (e *LexicalEncoder) Similarity(a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, ErrEmptyText
	}

	tokensA := contentTokens(a)
	tokensB := contentTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0, nil
	}

	// Symmetric fuzzy Dice coefficient: a token counts as shared when some
	// token on the other side matches it exactly or within a levenshtein
	// ratio of 0.8 (accents, plurals, typos).
	matches := matchCount(tokensA, tokensB) + matchCount(tokensB, tokensA)
	score := float64(matches) / float64(len(tokensA)+len(tokensB))

	return clamp01(score), nil
}

func matchCount(from, to []string) int {
	count := 0
	for _, token := range from {
		for _, candidate := range to {
			if token == candidate {
				count++
				break
			}
			ratio := levenshtein.RatioForStrings([]rune(token), []rune(candidate), levenshtein.DefaultOptions)
			if ratio >= 0.8 {
				count++
				break
			}
		}
	}
	return count
}

func contentTokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.Trim(field, ".,;:¡!¿?()[]\"'")
		if token == "" || spanishStopwords[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
