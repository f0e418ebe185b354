package testutil

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jbctechsolutions/gtc/internal/domain/count"
)

// WordTokenizer is a deterministic Tokenizer that counts whitespace
// separated words. It panics on any text containing PanicOn when set.
type WordTokenizer struct {
	Name    string
	PanicOn string
}

// Encoding returns the configured encoding name.
func (w *WordTokenizer) Encoding() string { return w.Name }

// CountTokens returns the number of whitespace separated words.
func (w *WordTokenizer) CountTokens(text string) int {
	if w.PanicOn != "" && strings.Contains(text, w.PanicOn) {
		panic("tokenizer rejected input")
	}
	return len(strings.Fields(text))
}

// FakeFactory hands out WordTokenizers and records requested encodings.
type FakeFactory struct {
	mu       sync.Mutex
	Err      error
	PanicOn  string
	Requests []string
}

// Get returns a WordTokenizer for the encoding, or Err when set.
func (f *FakeFactory) Get(name string) (count.Tokenizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, name)
	if f.Err != nil {
		return nil, fmt.Errorf("load %s: %w", name, f.Err)
	}
	return &WordTokenizer{Name: name, PanicOn: f.PanicOn}, nil
}
