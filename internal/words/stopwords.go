// Package words provides text tokenization for word-frequency
// analysis: stopword filtering with an asynchronously loaded word
// list, and presentation-aware emoji extraction.
package words

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// State tracks the stopword set lifecycle. Metrics consult
// whichever set is current rather than blocking: results computed
// before the full list loads may under-filter, which is an
// accepted staleness window, not an error state.
type State int

const (
	Unloaded State = iota
	Loading
	Ready
	FallbackActive
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case FallbackActive:
		return "fallback"
	}
	return "unknown"
}

// mediaTokens are export artifacts ("<Media omitted>", "sticker
// omitted") that would otherwise dominate frequency counts. They
// are appended to every stopword set, loaded or fallback.
var mediaTokens = []string{
	"omitted", "media", "sticker", "image", "video", "audio", "document",
}

// fallbackWords is the minimal built-in set used until the full
// list loads, or permanently if loading fails.
var fallbackWords = []string{
	"the", "a", "an", "and", "is", "it", "to", "of",
}

// Stopwords is a concurrency-safe stopword set with best-effort
// asynchronous loading of the full word list.
type Stopwords struct {
	mu    sync.RWMutex
	state State
	words map[string]bool
}

// NewStopwords returns a set holding only the built-in fallback
// words, in the Unloaded state.
func NewStopwords() *Stopwords {
	s := &Stopwords{state: Unloaded}
	s.words = buildSet(fallbackWords)
	return s
}

func buildSet(base []string) map[string]bool {
	set := make(map[string]bool, len(base)+len(mediaTokens))
	for _, w := range base {
		set[strings.ToLower(w)] = true
	}
	for _, w := range mediaTokens {
		set[w] = true
	}
	return set
}

// Has reports whether w (already lowercased by the tokenizer) is a
// stopword under the currently active set.
func (s *Stopwords) Has(w string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.words[w]
}

// State returns the current lifecycle state.
func (s *Stopwords) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Len returns the size of the active set.
func (s *Stopwords) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// LoadAsync fetches the full stopword list (a JSON string array)
// from url in a background goroutine. Fire-and-forget: no metric
// call ever blocks on it. On any failure the fallback set stays
// active and the failure is logged.
func (s *Stopwords) LoadAsync(url string, client *http.Client) {
	s.mu.Lock()
	if s.state == Loading {
		s.mu.Unlock()
		return
	}
	s.state = Loading
	s.mu.Unlock()

	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	go func() {
		words, err := fetchWordList(url, client)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.state = FallbackActive
			log.Printf("stopwords: using fallback set: %v", err)
			return
		}
		s.words = buildSet(words)
		s.state = Ready
		log.Printf("stopwords: loaded %d words", len(words))
	}()
}

// LoadFromJSON installs a word list from raw JSON, used for lists
// bundled on disk. Same degradation rules as LoadAsync.
func (s *Stopwords) LoadFromJSON(data []byte) error {
	words, err := parseWordList(data)
	if err != nil {
		s.mu.Lock()
		s.state = FallbackActive
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.words = buildSet(words)
	s.state = Ready
	s.mu.Unlock()
	return nil
}

func fetchWordList(url string, client *http.Client) ([]string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching stopword list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"fetching stopword list: status %d", resp.StatusCode,
		)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading stopword list: %w", err)
	}
	return parseWordList(body)
}

func parseWordList(data []byte) ([]string, error) {
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("stopword list is not a JSON array")
	}
	var words []string
	parsed.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String && v.Str != "" {
			words = append(words, v.Str)
		}
		return true
	})
	if len(words) == 0 {
		return nil, fmt.Errorf("stopword list is empty")
	}
	return words, nil
}
