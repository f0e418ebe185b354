package encoding

import "sort"

// ModelEntry pairs a model name with the encoding it uses.
type ModelEntry struct {
	Model    string `json:"model"`
	Encoding string `json:"encoding"`
}

// builtinModels is the fixed model table. It is copied into every
// Resolver and never modified.
var builtinModels = map[string]string{
	"gpt-5":                  O200kBase,
	"gpt-4o":                 O200kBase,
	"gpt-4o-mini":            O200kBase,
	"gpt-4-turbo":            Cl100kBase,
	"gpt-4":                  Cl100kBase,
	"gpt-3.5-turbo":          Cl100kBase,
	"text-embedding-3-small": Cl100kBase,
	"text-embedding-3-large": Cl100kBase,
	"text-embedding-ada-002": Cl100kBase,
}

// BuiltinModels returns a copy of the built-in model table.
func BuiltinModels() map[string]string {
	out := make(map[string]string, len(builtinModels))
	for k, v := range builtinModels {
		out[k] = v
	}
	return out
}

func sortedEntries(m map[string]string) []ModelEntry {
	entries := make([]ModelEntry, 0, len(m))
	for model, enc := range m {
		entries = append(entries, ModelEntry{Model: model, Encoding: enc})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Model < entries[j].Model })
	return entries
}
