package core

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsInappropriateExactTokenMatch(t *testing.T) {
	filter := NewModerationFilter([]string{"badword"})

	cases := []struct {
		input string
		want  bool
	}{
		{"this is a BADWORD here", true},
		{"this is fine", false},
		{"badwordish", false}, // no substring matching
		{"badword", true},
		{"  badword  ", true},
		{"", false},
	}

	for _, c := range cases {
		if got := filter.IsInappropriate(c.input); got != c.want {
			t.Errorf("IsInappropriate(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestNewModerationFilterNormalizesWords(t *testing.T) {
	filter := NewModerationFilter([]string{"BadWord\r", "  ", "", "other"})
	if filter.Size() != 2 {
		t.Fatalf("expected 2 banned words, got %d", filter.Size())
	}
	if !filter.IsInappropriate("badword") {
		t.Error("expected word list entries to be lower-cased and trimmed")
	}
}

func TestEmptyFilterAllowsEverything(t *testing.T) {
	filter := NewModerationFilter(nil)
	if filter.IsInappropriate("anything at all") {
		t.Error("empty filter must not flag messages")
	}
}

func TestFetchBannedWords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("alpha\nbeta\ngamma\n"))
	}))
	defer srv.Close()

	words := FetchBannedWords(srv.URL)
	filter := NewModerationFilter(words)
	if filter.Size() != 3 {
		t.Fatalf("expected 3 words, got %d", filter.Size())
	}
	if !filter.IsInappropriate("some beta text") {
		t.Error("expected fetched word to be banned")
	}
}

func TestFetchBannedWordsDegradesOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if words := FetchBannedWords(srv.URL); len(words) != 0 {
		t.Errorf("expected no words on non-200 response, got %d", len(words))
	}

	if words := FetchBannedWords("http://127.0.0.1:0/unreachable"); len(words) != 0 {
		t.Errorf("expected no words on network failure, got %d", len(words))
	}
}
