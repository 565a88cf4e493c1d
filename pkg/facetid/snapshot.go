package facetid

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp-forge/facet/pkg/dimension"
	"github.com/hashicorp-forge/facet/pkg/models"
)

var (
	// ErrNoMatch indicates a user-facing ID does not name any document.
	ErrNoMatch = errors.New("no document matches")

	// ErrAmbiguous indicates a user-facing ID names more than one document.
	// Deterministic sequencing should make this unreachable; it is defended
	// against because cross-dimension prefix concatenations can collide.
	ErrAmbiguous = errors.New("more than one document matches")
)

// Snapshot is a consistent view of the document set against which IDs are
// computed and resolved. Callers must not mutate the store while holding a
// snapshot; the store's serialization discipline guarantees this.
type Snapshot struct {
	registry *dimension.Registry
	ordered  []models.Document
	byUUID   map[string]*models.Document
	children map[string][]*models.Document
}

// NewSnapshot builds a snapshot from the given documents. Ordering is
// normalized to creation order with UUID as tiebreaker, so callers may pass
// documents in any order.
func NewSnapshot(registry *dimension.Registry, docs []models.Document) *Snapshot {
	sorted := make([]models.Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].UUID < sorted[j].UUID
	})

	s := &Snapshot{
		registry: registry,
		ordered:  sorted,
		byUUID:   make(map[string]*models.Document, len(sorted)),
		children: make(map[string][]*models.Document),
	}

	refField := registry.RefField()
	for i := range sorted {
		doc := &sorted[i]
		s.byUUID[doc.UUID] = doc
		parent := doc.ParentUUID(refField)
		s.children[parent] = append(s.children[parent], doc)
	}
	return s
}

// Documents returns every document in creation order, the store's stable
// default ordering.
func (s *Snapshot) Documents() []models.Document {
	return s.ordered
}

// Contains reports whether the snapshot holds a document with this UUID.
func (s *Snapshot) Contains(uuid string) bool {
	_, ok := s.byUUID[uuid]
	return ok
}

// Document returns the snapshot's copy of a document.
func (s *Snapshot) Document(uuid string) (*models.Document, bool) {
	doc, ok := s.byUUID[uuid]
	return doc, ok
}

// Len returns the number of documents in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.byUUID)
}

// scopeAndPrefix computes a document's sibling-scope key and rendered
// prefix. The scope is the combination of enumerated dimension values that
// contribute a token, in config order; the prefix is the concatenation of
// those tokens. Two distinct value combinations can render the same prefix
// string, which is why the scope is keyed by values rather than by the
// rendered prefix.
func (s *Snapshot) scopeAndPrefix(doc *models.Document) (string, string) {
	var scope, prefix strings.Builder
	for _, dim := range s.registry.Enumerated() {
		value := s.registry.EffectiveValue(doc.Dimensions, dim.Name)
		token := dim.Prefix(value)
		if token == "" {
			continue
		}
		scope.WriteString(dim.Name)
		scope.WriteByte('=')
		scope.WriteString(value)
		scope.WriteByte(';')
		prefix.WriteString(token)
	}
	return scope.String(), prefix.String()
}

// segmentsUnder assigns each child of parentUUID its segment. Sequence
// numbers run 1..n per sibling scope (same parent, same contributing value
// combination) in creation order.
func (s *Snapshot) segmentsUnder(parentUUID string) map[string]Segment {
	counts := make(map[string]int)
	out := make(map[string]Segment, len(s.children[parentUUID]))
	for _, doc := range s.children[parentUUID] {
		scope, prefix := s.scopeAndPrefix(doc)
		counts[scope]++
		out[doc.UUID] = Segment{Prefix: prefix, Seq: counts[scope]}
	}
	return out
}

// IDs computes the user-facing ID of every document reachable from the
// roots, keyed by UUID. Documents whose parent chain never reaches a root
// (dangling or cyclic references) get no ID.
func (s *Snapshot) IDs() map[string]string {
	ids := make(map[string]string, len(s.byUUID))

	type frame struct {
		parentUUID string
		parentID   string
	}
	queue := []frame{{parentUUID: "", parentID: ""}}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		segments := s.segmentsUnder(f.parentUUID)
		for _, doc := range s.children[f.parentUUID] {
			id := segments[doc.UUID].String()
			if f.parentID != "" {
				id = f.parentID + Separator + id
			}
			ids[doc.UUID] = id
			queue = append(queue, frame{parentUUID: doc.UUID, parentID: id})
		}
	}
	return ids
}

// Render computes the current user-facing ID for one document.
func (s *Snapshot) Render(uuid string) (string, bool) {
	id, ok := s.IDs()[uuid]
	return id, ok
}

// Resolve maps a user-facing ID back to a UUID by recomputing each level's
// sibling scopes with the same algorithm that generated them.
func (s *Snapshot) Resolve(raw string) (string, error) {
	segments, err := ParseID(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, err)
	}

	parent := ""
	for depth, want := range segments {
		assigned := s.segmentsUnder(parent)

		var matches []string
		for _, doc := range s.children[parent] {
			if assigned[doc.UUID] == want {
				matches = append(matches, doc.UUID)
			}
		}

		switch len(matches) {
		case 0:
			return "", fmt.Errorf("%w: %q (segment %d)", ErrNoMatch, raw, depth+1)
		case 1:
			parent = matches[0]
		default:
			return "", fmt.Errorf("%w: %q (segment %d)", ErrAmbiguous, raw, depth+1)
		}
	}
	return parent, nil
}

// Descendants returns the UUIDs of every transitive child of uuid.
func (s *Snapshot) Descendants(uuid string) []string {
	var out []string
	queue := []string{uuid}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range s.children[current] {
			out = append(out, child.UUID)
			queue = append(queue, child.UUID)
		}
	}
	return out
}

// WouldCycle reports whether reparenting docUUID under newParentUUID would
// close a loop. The ancestor walk carries a visited set so a pre-existing
// cycle in stored data cannot make it spin.
func (s *Snapshot) WouldCycle(docUUID, newParentUUID string) bool {
	if docUUID == newParentUUID {
		return true
	}

	refField := s.registry.RefField()
	visited := make(map[string]bool)
	current := newParentUUID
	for current != "" && !visited[current] {
		if current == docUUID {
			return true
		}
		visited[current] = true
		doc, ok := s.byUUID[current]
		if !ok {
			return false
		}
		current = doc.ParentUUID(refField)
	}
	return false
}
