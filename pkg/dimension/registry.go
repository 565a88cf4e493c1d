package dimension

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Registry is the validated, immutable view of a Config that the rest of
// the store consults. It is read-only after construction and safe for
// concurrent use.
type Registry struct {
	dims         []Dimension
	byName       map[string]*Dimension
	enumerated   []Dimension
	hierarchical *Dimension
}

// NewRegistry validates cfg and builds a Registry from it. All violations
// are collected and reported together, each naming the offending dimension
// and rule.
func NewRegistry(cfg Config) (*Registry, error) {
	var result *multierror.Error

	r := &Registry{
		dims:   make([]Dimension, len(cfg.Dimensions)),
		byName: make(map[string]*Dimension, len(cfg.Dimensions)),
	}
	copy(r.dims, cfg.Dimensions)

	for i := range r.dims {
		dim := &r.dims[i]

		if dim.Name == "" {
			result = multierror.Append(result,
				fmt.Errorf("dimension %d: name must not be empty", i))
			continue
		}
		if _, dup := r.byName[dim.Name]; dup {
			result = multierror.Append(result,
				fmt.Errorf("dimension %q: duplicate name", dim.Name))
			continue
		}
		r.byName[dim.Name] = dim

		switch dim.Kind {
		case Enumerated:
			if err := validateEnumerated(dim); err != nil {
				result = multierror.Append(result, err)
				continue
			}
			r.enumerated = append(r.enumerated, *dim)

		case Hierarchical:
			if dim.RefField == "" {
				result = multierror.Append(result,
					fmt.Errorf("dimension %q: hierarchical dimension requires a ref field", dim.Name))
				continue
			}
			if len(dim.Values) > 0 || len(dim.Prefixes) > 0 || dim.DefaultValue != "" {
				result = multierror.Append(result,
					fmt.Errorf("dimension %q: hierarchical dimension must not declare values, prefixes, or a default", dim.Name))
				continue
			}
			if r.hierarchical != nil {
				result = multierror.Append(result,
					fmt.Errorf("dimension %q: at most one hierarchical dimension is supported (already have %q)",
						dim.Name, r.hierarchical.Name))
				continue
			}
			r.hierarchical = dim

		default:
			result = multierror.Append(result,
				fmt.Errorf("dimension %q: unknown kind %d", dim.Name, dim.Kind))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return r, nil
}

func validateEnumerated(dim *Dimension) error {
	var result *multierror.Error

	if len(dim.Values) == 0 {
		result = multierror.Append(result,
			fmt.Errorf("dimension %q: enumerated dimension requires at least one value", dim.Name))
	}

	seen := make(map[string]bool, len(dim.Values))
	for _, v := range dim.Values {
		if v == "" {
			result = multierror.Append(result,
				fmt.Errorf("dimension %q: values must not be empty", dim.Name))
			continue
		}
		if seen[v] {
			result = multierror.Append(result,
				fmt.Errorf("dimension %q: duplicate value %q", dim.Name, v))
		}
		seen[v] = true
	}

	if dim.DefaultValue != "" && !seen[dim.DefaultValue] {
		result = multierror.Append(result,
			fmt.Errorf("dimension %q: default value %q is not in the value set", dim.Name, dim.DefaultValue))
	}

	usedTokens := make(map[string]string, len(dim.Prefixes))
	for value, token := range dim.Prefixes {
		if !seen[value] {
			result = multierror.Append(result,
				fmt.Errorf("dimension %q: prefix declared for unknown value %q", dim.Name, value))
			continue
		}
		if token == "" {
			result = multierror.Append(result,
				fmt.Errorf("dimension %q: prefix for value %q must not be empty", dim.Name, value))
			continue
		}
		// Digits and dots belong to sequence numbers and hierarchy
		// separators; a token containing them would not parse back.
		if strings.ContainsAny(token, "0123456789.") {
			result = multierror.Append(result,
				fmt.Errorf("dimension %q: prefix %q for value %q must not contain digits or dots",
					dim.Name, token, value))
			continue
		}
		if other, dup := usedTokens[token]; dup {
			result = multierror.Append(result,
				fmt.Errorf("dimension %q: prefix %q is shared by values %q and %q",
					dim.Name, token, other, value))
			continue
		}
		usedTokens[token] = value
	}

	if dim.RefField != "" {
		result = multierror.Append(result,
			fmt.Errorf("dimension %q: enumerated dimension must not declare a ref field", dim.Name))
	}

	return result.ErrorOrNil()
}

// Dimension returns the dimension with the given name.
func (r *Registry) Dimension(name string) (*Dimension, bool) {
	dim, ok := r.byName[name]
	return dim, ok
}

// All returns every dimension in declaration order.
func (r *Registry) All() []Dimension {
	return r.dims
}

// Enumerated returns the enumerated dimensions in declaration order. This
// ordering controls prefix concatenation in generated IDs.
func (r *Registry) Enumerated() []Dimension {
	return r.enumerated
}

// Hierarchical returns the hierarchical dimension, if the config declares
// one.
func (r *Registry) Hierarchical() (*Dimension, bool) {
	if r.hierarchical == nil {
		return nil, false
	}
	return r.hierarchical, true
}

// RefField returns the parent-reference key of the hierarchical dimension,
// or "" when the config has no hierarchy.
func (r *Registry) RefField() string {
	if r.hierarchical == nil {
		return ""
	}
	return r.hierarchical.RefField
}

// EffectiveValue returns the value a document holds for an enumerated
// dimension, falling back to the dimension's default when absent.
func (r *Registry) EffectiveValue(dims map[string]string, name string) string {
	dim, ok := r.byName[name]
	if !ok || dim.Kind != Enumerated {
		return ""
	}
	if v, ok := dims[name]; ok && v != "" {
		return v
	}
	return dim.DefaultValue
}
