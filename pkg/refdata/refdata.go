// Package refdata defines the label/value option lists supplied by the
// reference-data collaborator. The core never fetches options itself; callers
// hand a Provider to the tree builders and filter generators.
package refdata

import "context"

// Option is a single enumerated choice for select-style fields.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Provider resolves the option list for a named reference-data category
// (gender, occupation, outcome, risk level, ...).
type Provider interface {
	Options(ctx context.Context, category string) ([]Option, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, category string) ([]Option, error)

// Options delegates to the underlying function.
func (fn ProviderFunc) Options(ctx context.Context, category string) ([]Option, error) {
	return fn(ctx, category)
}

// Static returns a Provider backed by an in-memory category map. Useful for
// tests and the CLI; production callers wrap their reference-data client.
func Static(categories map[string][]Option) Provider {
	return ProviderFunc(func(_ context.Context, category string) ([]Option, error) {
		return categories[category], nil
	})
}

// Values extracts the raw values from an option list, preserving order.
func Values(options []Option) []string {
	if len(options) == 0 {
		return nil
	}
	out := make([]string, 0, len(options))
	for _, opt := range options {
		out = append(out, opt.Value)
	}
	return out
}
