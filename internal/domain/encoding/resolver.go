package encoding

import (
	"fmt"
	"strings"

	domainErrors "github.com/jbctechsolutions/gtc/internal/domain/errors"
)

// Resolver maps model and encoding names to an encoding the tokenizer
// accepts. It is immutable after construction and safe for concurrent use.
type Resolver struct {
	models          map[string]string
	defaultModel    string
	defaultEncoding string
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithModels adds model mappings on top of the built-in table. Every
// mapping must point at a known encoding.
func WithModels(extra map[string]string) Option {
	return func(r *Resolver) error {
		for model, enc := range extra {
			model = strings.TrimSpace(model)
			enc = strings.TrimSpace(enc)
			if model == "" {
				return domainErrors.NewError(domainErrors.CodeConfiguration, "model mapping has an empty model name", domainErrors.ErrUnknownModel)
			}
			if !IsKnown(enc) {
				return domainErrors.NewError(domainErrors.CodeConfiguration,
					fmt.Sprintf("model %q maps to encoding %q", model, enc), domainErrors.ErrUnknownEncoding)
			}
			r.models[model] = enc
		}
		return nil
	}
}

// WithDefaultModel overrides the model used when none is given.
func WithDefaultModel(model string) Option {
	return func(r *Resolver) error {
		model = strings.TrimSpace(model)
		if model != "" {
			r.defaultModel = model
		}
		return nil
	}
}

// WithDefaultEncoding sets an encoding used when neither a model nor an
// encoding is given. It never overrides an explicit model.
func WithDefaultEncoding(name string) Option {
	return func(r *Resolver) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil
		}
		if !IsKnown(name) {
			return domainErrors.NewError(domainErrors.CodeConfiguration,
				fmt.Sprintf("default encoding %q is not supported", name), domainErrors.ErrUnknownEncoding)
		}
		r.defaultEncoding = name
		return nil
	}
}

// NewResolver creates a Resolver over the built-in model table.
func NewResolver(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		models:       BuiltinModels(),
		defaultModel: DefaultModel,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if _, ok := r.models[r.defaultModel]; !ok {
		return nil, domainErrors.NewError(domainErrors.CodeConfiguration,
			fmt.Sprintf("default model %q is not in the model table", r.defaultModel), domainErrors.ErrUnknownModel)
	}
	return r, nil
}

// Resolve returns the encoding for the given inputs. An explicit encoding
// wins over the model. With neither given, the default encoding applies if
// set, otherwise the default model is looked up.
func (r *Resolver) Resolve(model, encodingName string) (string, error) {
	if enc := strings.TrimSpace(encodingName); enc != "" {
		if !IsKnown(enc) {
			return "", domainErrors.WithContext(
				domainErrors.NewError(domainErrors.CodeConfiguration,
					fmt.Sprintf("encoding %q is not supported", enc), domainErrors.ErrUnknownEncoding),
				"encoding", enc)
		}
		return enc, nil
	}

	model = strings.TrimSpace(model)
	if model == "" {
		if r.defaultEncoding != "" {
			return r.defaultEncoding, nil
		}
		model = r.defaultModel
	}

	enc, ok := r.models[model]
	if !ok {
		return "", domainErrors.WithContext(
			domainErrors.NewError(domainErrors.CodeConfiguration,
				fmt.Sprintf("model %q is not in the model table", model), domainErrors.ErrUnknownModel),
			"model", model)
	}
	return enc, nil
}

// EffectiveModel returns the model a resolution reports: the given model,
// or the default model when neither a model nor an encoding applies. It is
// empty when only an explicit or default encoding was used.
func (r *Resolver) EffectiveModel(model, encodingName string) string {
	model = strings.TrimSpace(model)
	if model != "" || strings.TrimSpace(encodingName) != "" || r.defaultEncoding != "" {
		return model
	}
	return r.defaultModel
}

// DefaultModel returns the model used when none is given.
func (r *Resolver) DefaultModel() string {
	return r.defaultModel
}

// Models returns the model table sorted by model name.
func (r *Resolver) Models() []ModelEntry {
	return sortedEntries(r.models)
}

// ModelMap returns a copy of the model table.
func (r *Resolver) ModelMap() map[string]string {
	out := make(map[string]string, len(r.models))
	for k, v := range r.models {
		out[k] = v
	}
	return out
}

// Encodings returns the encoding catalog sorted by name.
func (r *Resolver) Encodings() []Info {
	return Catalog()
}
