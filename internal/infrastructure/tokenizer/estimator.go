// Package tokenizer provides token counting infrastructure using tiktoken.
// It implements the domain Tokenizer port for every encoding the library supports.
package tokenizer

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktokenloader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/jbctechsolutions/gtc/internal/domain/count"
	"github.com/jbctechsolutions/gtc/internal/domain/encoding"
	domainErrors "github.com/jbctechsolutions/gtc/internal/domain/errors"
)

// Estimator provides token counting using tiktoken-go for one encoding.
type Estimator struct {
	name     string
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex
}

// Ensure Estimator implements count.Tokenizer.
var _ count.Tokenizer = (*Estimator)(nil)

// NewEstimator creates a token estimator for the named encoding.
func NewEstimator(name string) (*Estimator, error) {
	if !encoding.IsKnown(name) {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrUnknownEncoding, name)
	}

	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", domainErrors.ErrTokenizer, name, err)
	}

	return &Estimator{
		name:     name,
		encoding: enc,
	}, nil
}

// Encoding returns the encoding name.
func (e *Estimator) Encoding() string {
	return e.name
}

// CountTokens returns the token count for the given text.
// This method is thread-safe.
func (e *Estimator) CountTokens(text string) int {
	if text == "" {
		return 0
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	tokens := e.encoding.Encode(text, nil, nil)
	return len(tokens)
}

// Options configures how encodings are loaded.
type Options struct {
	// Offline loads BPE ranks from files embedded in the binary instead of
	// downloading them.
	Offline bool

	// CacheDir is where downloaded BPE files are cached. Empty keeps the
	// tiktoken-go default.
	CacheDir string
}

// Factory creates and caches one Estimator per encoding.
type Factory struct {
	mu         sync.Mutex
	estimators map[string]*Estimator
}

// Ensure Factory implements count.TokenizerFactory.
var _ count.TokenizerFactory = (*Factory)(nil)

var configureOnce sync.Once

// NewFactory creates a Factory. Loader options are process-wide in
// tiktoken-go, so only the first call's options take effect.
func NewFactory(opts Options) *Factory {
	configureOnce.Do(func() {
		if opts.CacheDir != "" {
			_ = os.Setenv("TIKTOKEN_CACHE_DIR", opts.CacheDir)
		}
		if opts.Offline {
			tiktoken.SetBpeLoader(tiktokenloader.NewOfflineLoader())
		}
	})

	return &Factory{
		estimators: make(map[string]*Estimator),
	}
}

// Get returns the Estimator for the encoding, loading it on first use.
func (f *Factory) Get(name string) (count.Tokenizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if est, ok := f.estimators[name]; ok {
		return est, nil
	}

	est, err := NewEstimator(name)
	if err != nil {
		return nil, err
	}
	f.estimators[name] = est
	return est, nil
}
