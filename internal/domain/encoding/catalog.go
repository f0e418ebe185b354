// Package encoding contains the model-to-encoding table and the resolver
// that turns user-supplied model or encoding names into a tokenizer encoding.
package encoding

import "sort"

// Encoding names supported by the tokenizer library.
const (
	O200kBase  = "o200k_base"
	Cl100kBase = "cl100k_base"
	P50kBase   = "p50k_base"
	P50kEdit   = "p50k_edit"
	R50kBase   = "r50k_base"
)

// DefaultModel is used when neither a model nor an encoding is given.
const DefaultModel = "gpt-5"

// Info describes a tokenizer encoding.
type Info struct {
	Name      string `json:"name"`
	VocabSize int    `json:"vocab_size"`
}

// catalog lists every encoding the tokenizer library can load, with the
// vocabulary size it reports (mergeable ranks plus special tokens).
var catalog = map[string]int{
	O200kBase:  200019,
	Cl100kBase: 100277,
	P50kBase:   50281,
	P50kEdit:   50284,
	R50kBase:   50257,
}

// IsKnown reports whether name is an encoding the tokenizer accepts.
func IsKnown(name string) bool {
	_, ok := catalog[name]
	return ok
}

// Lookup returns the Info for a known encoding.
func Lookup(name string) (Info, bool) {
	size, ok := catalog[name]
	if !ok {
		return Info{}, false
	}
	return Info{Name: name, VocabSize: size}, true
}

// Catalog returns all known encodings sorted by name.
func Catalog() []Info {
	infos := make([]Info, 0, len(catalog))
	for name, size := range catalog {
		infos = append(infos, Info{Name: name, VocabSize: size})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
