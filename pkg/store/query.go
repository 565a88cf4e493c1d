package store

import (
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/hashicorp-forge/facet/pkg/dimension"
	"github.com/hashicorp-forge/facet/pkg/facetid"
	"github.com/hashicorp-forge/facet/pkg/models"
)

// OrderClause names a sortable field and direction for List results.
type OrderClause struct {
	Field      string
	Descending bool
}

// Sortable fields for explicit ordering. The default, with no OrderBy, is
// creation order, which is also the order sequence numbers are assigned in.
const (
	OrderByTitle     = "title"
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
)

// ListOptions configures filtered retrieval.
type ListOptions struct {
	// Filters maps dimension names to required values, AND-composed.
	// Enumerated dimensions match on their effective value, so a document
	// that omits a dimension matches a filter equal to the default. The
	// hierarchical ref field matches the parent, given as UUID or
	// user-facing ID.
	Filters map[string]string

	// Search is a case-insensitive substring match over title and body.
	Search string

	// OrderBy overrides the default creation order.
	OrderBy []OrderClause

	// Limit caps the number of results; nil means unlimited, zero returns
	// nothing. Offset skips results after ordering; nil or negative means
	// none.
	Limit  *int
	Offset *int
}

// List returns the documents matching opts in a stable order, each with
// its computed user-facing ID.
func (s *Store) List(opts ListOptions) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	snap, err := s.snapshot(s.db)
	if err != nil {
		return nil, err
	}
	return s.listLocked(snap, opts)
}

func (s *Store) listLocked(snap *facetid.Snapshot, opts ListOptions) ([]Document, error) {
	match, err := s.compileFilter(snap, opts)
	if err != nil {
		return nil, err
	}
	if err := validateOrderBy(opts.OrderBy); err != nil {
		return nil, err
	}

	ids := snap.IDs()
	var results []Document
	for _, doc := range snap.Documents() {
		if !match(&doc) {
			continue
		}
		results = append(results, exportDocument(&doc, ids[doc.UUID]))
	}

	applyOrder(results, opts.OrderBy)
	return paginate(results, opts.Limit, opts.Offset), nil
}

// compileFilter validates the filter spec against the registry and returns
// the matching predicate.
func (s *Store) compileFilter(snap *facetid.Snapshot, opts ListOptions) (func(*models.Document) bool, error) {
	refField := s.registry.RefField()

	// Normalized copy: parent locators resolved to UUIDs up front.
	filters := make(map[string]string, len(opts.Filters))
	for name, value := range opts.Filters {
		if refField != "" && name == refField {
			parent, err := s.resolveParentRef(snap, value)
			if err != nil {
				return nil, err
			}
			filters[name] = parent
			continue
		}

		dim, ok := s.registry.Dimension(name)
		if !ok {
			return nil, validationf("unknown dimension %q in filter", name)
		}
		if dim.Kind == dimension.Hierarchical {
			return nil, validationf("dimension %q holds a parent reference; filter by its ref field %q",
				name, dim.RefField)
		}
		if !dim.IsValidValue(value) {
			return nil, validationf("invalid value %q for dimension %q in filter", value, name)
		}
		filters[name] = value
	}

	search := strings.ToLower(opts.Search)

	return func(doc *models.Document) bool {
		for name, want := range filters {
			if refField != "" && name == refField {
				if doc.ParentUUID(refField) != want {
					return false
				}
				continue
			}
			if s.registry.EffectiveValue(doc.Dimensions, name) != want {
				return false
			}
		}
		if search != "" {
			title := strings.ToLower(doc.Title)
			body := strings.ToLower(doc.Body)
			if !strings.Contains(title, search) && !strings.Contains(body, search) {
				return false
			}
		}
		return true
	}, nil
}

func validateOrderBy(clauses []OrderClause) error {
	for _, clause := range clauses {
		switch clause.Field {
		case OrderByTitle, OrderByCreatedAt, OrderByUpdatedAt:
		default:
			return validationf("unknown order field %q", clause.Field)
		}
	}
	return nil
}

func applyOrder(docs []Document, clauses []OrderClause) {
	if len(clauses) == 0 {
		return
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, clause := range clauses {
			var less, greater bool
			switch clause.Field {
			case OrderByTitle:
				less = docs[i].Title < docs[j].Title
				greater = docs[i].Title > docs[j].Title
			case OrderByCreatedAt:
				less = docs[i].CreatedAt.Before(docs[j].CreatedAt)
				greater = docs[i].CreatedAt.After(docs[j].CreatedAt)
			case OrderByUpdatedAt:
				less = docs[i].UpdatedAt.Before(docs[j].UpdatedAt)
				greater = docs[i].UpdatedAt.After(docs[j].UpdatedAt)
			}
			if !less && !greater {
				continue
			}
			if clause.Descending {
				return greater
			}
			return less
		}
		return false
	})
}

func paginate(docs []Document, limit, offset *int) []Document {
	if offset != nil && *offset > 0 {
		if *offset >= len(docs) {
			return nil
		}
		docs = docs[*offset:]
	}
	if limit != nil && *limit >= 0 && *limit < len(docs) {
		docs = docs[:*limit]
	}
	return docs
}

// DeleteByDimension removes every document matching the filters and
// returns the count. Matching follows List semantics, including effective
// values; descendants of deleted documents are not cascaded.
func (s *Store) DeleteByDimension(filters map[string]string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	var removed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		snap, err := s.snapshot(tx)
		if err != nil {
			return err
		}
		matched, err := s.listLocked(snap, ListOptions{Filters: filters})
		if err != nil {
			return err
		}

		uuids := make([]string, len(matched))
		for i, doc := range matched {
			uuids[i] = doc.UUID
		}
		removed, err = models.DeleteDocumentsByUUIDs(tx, uuids)
		if err != nil {
			return storagef("%s", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("documents deleted by dimension", "count", removed)
	return int(removed), nil
}

// UpdateByDimension applies the same partial update to every document
// matching the filters and returns the count.
func (s *Store) UpdateByDimension(filters map[string]string, req UpdateRequest) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	var updated int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		snap, err := s.snapshot(tx)
		if err != nil {
			return err
		}
		matched, err := s.listLocked(snap, ListOptions{Filters: filters})
		if err != nil {
			return err
		}

		for _, doc := range matched {
			if err := s.applyUpdate(tx, snap, doc.UUID, req); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("documents updated by dimension", "count", updated)
	return updated, nil
}
