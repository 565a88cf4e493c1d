package dimension

// Kind identifies how a dimension classifies documents.
type Kind int

const (
	// Enumerated dimensions carry a closed set of string values
	// (e.g., status, priority).
	Enumerated Kind = iota

	// Hierarchical dimensions hold a parent document reference and
	// induce a tree over the store.
	Hierarchical
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Enumerated:
		return "enumerated"
	case Hierarchical:
		return "hierarchical"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind from its string form.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "enumerated":
		return Enumerated, true
	case "hierarchical":
		return Hierarchical, true
	default:
		return 0, false
	}
}

// Dimension describes a single classification axis for documents.
//
// Enumerated dimensions use Values, Prefixes, and DefaultValue.
// Hierarchical dimensions use RefField and ignore the rest.
type Dimension struct {
	// Name is the unique identifier for this dimension within a Config.
	Name string

	// Kind specifies whether this is an enumerated or hierarchical dimension.
	Kind Kind

	// Values lists the allowed values for enumerated dimensions, in order.
	Values []string

	// Prefixes maps enumerated values to the short token rendered in
	// user-facing IDs (e.g., "completed" -> "c"). Values without an entry
	// contribute nothing to the ID.
	Prefixes map[string]string

	// DefaultValue is used when a document omits this enumerated dimension.
	DefaultValue string

	// RefField is the dimension-value key under which a document stores its
	// parent's UUID (e.g., "parent_uuid"). Hierarchical dimensions only.
	RefField string
}

// IsValidValue reports whether v is an allowed value for this dimension.
// Hierarchical dimensions accept any value (the store validates the
// referenced parent separately).
func (d *Dimension) IsValidValue(v string) bool {
	if d.Kind != Enumerated {
		return true
	}
	for _, allowed := range d.Values {
		if allowed == v {
			return true
		}
	}
	return false
}

// Prefix returns the ID token for an enumerated value.
//
// A value equal to the dimension's default never contributes a token, even
// when Prefixes carries an entry for it: the default state must render
// unmarked so that renaming the default does not reshuffle sibling scopes.
func (d *Dimension) Prefix(value string) string {
	if d.Kind != Enumerated {
		return ""
	}
	if value == d.DefaultValue {
		return ""
	}
	return d.Prefixes[value]
}

// Config is the ordered sequence of dimensions defining the shape of a
// store. The declaration order controls prefix concatenation order in
// generated IDs. A Config is immutable once a store is opened against it.
type Config struct {
	Dimensions []Dimension
}

// Dimension returns the dimension with the given name.
func (c Config) Dimension(name string) (*Dimension, bool) {
	for i := range c.Dimensions {
		if c.Dimensions[i].Name == name {
			return &c.Dimensions[i], true
		}
	}
	return nil, false
}
