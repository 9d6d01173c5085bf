package core

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ModerationFilter classifies messages against a fixed banned-word set. The
// set is built once at startup and never mutated afterwards; matching is
// exact-token only, no stemming and no substring matching.
type ModerationFilter struct {
	banned map[string]struct{}
}

func NewModerationFilter(words []string) *ModerationFilter {
	banned := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			banned[w] = struct{}{}
		}
	}
	return &ModerationFilter{banned: banned}
}

// FetchBannedWords downloads the word list. On any failure it returns an
// empty list so that moderation degrades open instead of failing startup.
func FetchBannedWords(url string) []string {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		log.Printf("Error fetching banned words: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Error fetching banned words: %v", fmt.Errorf("unexpected status %d", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading banned words: %v", err)
		return nil
	}
	return strings.Split(string(body), "\n")
}

// IsInappropriate reports whether any whitespace-delimited, lower-cased
// token of the input is a banned word.
func (f *ModerationFilter) IsInappropriate(text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, ok := f.banned[word]; ok {
			return true
		}
	}
	return false
}

// Size returns the number of banned words loaded.
func (f *ModerationFilter) Size() int {
	return len(f.banned)
}
