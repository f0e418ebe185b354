// Package count contains the domain types produced by a token count.
package count

// Tokenizer counts tokens for a single, fixed encoding.
// Implementations wrap an external tokenization library.
type Tokenizer interface {
	// Encoding returns the encoding name this tokenizer was built for.
	Encoding() string

	// CountTokens returns the token count for the given text.
	CountTokens(text string) int
}

// TokenizerFactory returns a Tokenizer for a named encoding. It fails when
// the tokenizer library cannot load the encoding.
type TokenizerFactory interface {
	Get(encoding string) (Tokenizer, error)
}
