// Package store is the façade over the facet document store: it owns the
// repository connection, validates operations against the dimension
// registry, and delegates user-facing ID work to the allocator.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/facet/pkg/database"
	"github.com/hashicorp-forge/facet/pkg/dimension"
	"github.com/hashicorp-forge/facet/pkg/facetid"
	"github.com/hashicorp-forge/facet/pkg/models"
)

// Options configures a store.
type Options struct {
	// Database selects and configures the backing relational store.
	Database database.Config

	// Dimensions defines the store's classification axes. Immutable once
	// the store is open.
	Dimensions dimension.Config

	// Logger receives structured operation logs. Nil silences logging.
	Logger hclog.Logger
}

// Store serializes logical operations against one open document store.
// One Store instance exclusively owns its repository connection; concurrent
// callers go through the façade's mutex, never around it.
type Store struct {
	db       *gorm.DB
	registry *dimension.Registry
	logger   hclog.Logger

	mu     sync.Mutex
	closed bool
}

// Document is a stored document as exposed to callers, with its freshly
// computed user-facing ID attached.
type Document struct {
	UUID         string            `json:"uuid"`
	UserFacingID string            `json:"user_facing_id"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Dimensions   map[string]string `json:"dimensions"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// UpdateRequest specifies the fields to change on a document. Nil pointers
// leave a field untouched. A dimension set to "" is cleared, reverting an
// enumerated dimension to its default and detaching a parent reference.
type UpdateRequest struct {
	Title      *string
	Body       *string
	Dimensions map[string]string
}

// Open validates the dimension config, connects to the database, and
// migrates the schema.
func Open(opts Options) (*Store, error) {
	registry, err := dimension.NewRegistry(opts.Dimensions)
	if err != nil {
		return nil, validationf("invalid dimension config: %s", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("store")

	db, err := database.Connect(opts.Database, logger)
	if err != nil {
		return nil, storagef("%s", err)
	}
	if err := db.AutoMigrate(&models.Document{}); err != nil {
		return nil, storagef("failed to migrate schema: %s", err)
	}

	dims := registry.All()
	names := make([]string, len(dims))
	for i, dim := range dims {
		names[i] = dim.Name
	}
	logger.Debug("store opened",
		"driver", opts.Database.Driver,
		"dimensions", names,
	)

	return &Store{
		db:       db,
		registry: registry,
		logger:   logger,
	}, nil
}

// Registry exposes the store's validated dimension registry.
func (s *Store) Registry() *dimension.Registry {
	return s.registry
}

// Add creates a document and returns its UUID. Unknown dimensions, values
// outside a dimension's set, and dangling parent references are rejected.
// The parent reference may be given as a UUID or a current user-facing ID.
func (s *Store) Add(title string, dims map[string]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}

	var created string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		snap, err := s.snapshot(tx)
		if err != nil {
			return err
		}

		validated, err := s.validateDimensions(snap, dims, false)
		if err != nil {
			return err
		}

		doc := models.Document{
			UUID:       uuid.NewString(),
			Title:      title,
			Dimensions: validated,
		}
		if err := tx.Create(&doc).Error; err != nil {
			return storagef("failed to create document: %s", err)
		}
		created = doc.UUID
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug("document added", "uuid", created)
	return created, nil
}

// Get returns the document a locator names, including its computed
// user-facing ID.
func (s *Store) Get(locator string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Document{}, ErrClosed
	}

	snap, err := s.snapshot(s.db)
	if err != nil {
		return Document{}, err
	}
	target, err := s.resolveLocator(snap, locator)
	if err != nil {
		return Document{}, err
	}

	doc, _ := snap.Document(target)
	id, _ := snap.Render(target)
	return exportDocument(doc, id), nil
}

// Resolve maps a locator (user-facing ID or UUID) to the canonical UUID.
func (s *Store) Resolve(locator string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}

	snap, err := s.snapshot(s.db)
	if err != nil {
		return "", err
	}
	return s.resolveLocator(snap, locator)
}

// Update applies a partial update to the document a locator names. The
// UUID and creation time never change; updated_at refreshes.
func (s *Store) Update(locator string, req UpdateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		snap, err := s.snapshot(tx)
		if err != nil {
			return err
		}
		target, err := s.resolveLocator(snap, locator)
		if err != nil {
			return err
		}
		return s.applyUpdate(tx, snap, target, req)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("document updated", "locator", locator)
	return nil
}

// Delete removes the document a locator names. With cascade it removes all
// transitive children too; without, a document that still has children is
// a conflict.
func (s *Store) Delete(locator string, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	var removed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		snap, err := s.snapshot(tx)
		if err != nil {
			return err
		}
		target, err := s.resolveLocator(snap, locator)
		if err != nil {
			return err
		}

		descendants := snap.Descendants(target)
		if len(descendants) > 0 && !cascade {
			return conflictf("document %q has %d descendant(s); pass cascade to delete them",
				locator, len(descendants))
		}

		removed, err = models.DeleteDocumentsByUUIDs(tx, append(descendants, target))
		if err != nil {
			return storagef("%s", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("documents deleted", "locator", locator, "cascade", cascade, "count", removed)
	return nil
}

// DeleteByUUIDs removes the given documents, skipping UUIDs that do not
// exist, and returns the number actually deleted. Children of deleted
// documents are not cascaded; they become unrenderable until reparented.
func (s *Store) DeleteByUUIDs(uuids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	var removed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		removed, err = models.DeleteDocumentsByUUIDs(tx, uuids)
		if err != nil {
			return storagef("%s", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

// Count returns the total number of stored documents.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	count, err := models.CountDocuments(s.db)
	if err != nil {
		return 0, storagef("failed to count documents: %s", err)
	}
	return int(count), nil
}

// Close releases the store's database connection. It is idempotent; all
// operations after Close fail with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	sqlDB, err := s.db.DB()
	if err != nil {
		return storagef("failed to get underlying SQL DB: %s", err)
	}
	if err := sqlDB.Close(); err != nil {
		return storagef("failed to close database: %s", err)
	}

	s.logger.Debug("store closed")
	return nil
}

// snapshot loads a consistent view of every document for ID computation.
func (s *Store) snapshot(tx *gorm.DB) (*facetid.Snapshot, error) {
	docs, err := models.ListDocumentsOrdered(tx)
	if err != nil {
		return nil, storagef("failed to load documents: %s", err)
	}
	return facetid.NewSnapshot(s.registry, docs), nil
}

// resolveLocator accepts a UUID or a currently valid user-facing ID.
func (s *Store) resolveLocator(snap *facetid.Snapshot, locator string) (string, error) {
	if locator == "" {
		return "", notFoundf("empty locator")
	}
	if facetid.IsUUID(locator) {
		if !snap.Contains(locator) {
			return "", notFoundf("%q", locator)
		}
		return locator, nil
	}

	resolved, err := snap.Resolve(locator)
	if err != nil {
		if errors.Is(err, facetid.ErrAmbiguous) {
			return "", wrapKind(ErrAmbiguous, err)
		}
		return "", wrapKind(ErrNotFound, err)
	}
	return resolved, nil
}

// validateDimensions checks a caller-supplied dimension map against the
// registry and normalizes parent references to UUIDs. With forUpdate set,
// empty values are kept as clear markers; otherwise they are dropped so
// defaults apply.
func (s *Store) validateDimensions(snap *facetid.Snapshot, dims map[string]string, forUpdate bool) (models.DimensionMap, error) {
	out := models.DimensionMap{}
	refField := s.registry.RefField()

	for name, value := range dims {
		if refField != "" && name == refField {
			if value == "" {
				if forUpdate {
					out[name] = ""
				}
				continue
			}
			parent, err := s.resolveParentRef(snap, value)
			if err != nil {
				return nil, err
			}
			out[name] = parent
			continue
		}

		dim, ok := s.registry.Dimension(name)
		if !ok {
			return nil, validationf("unknown dimension %q", name)
		}
		if dim.Kind == dimension.Hierarchical {
			return nil, validationf("dimension %q holds a parent reference; set it via its ref field %q",
				name, dim.RefField)
		}

		if value == "" {
			if forUpdate {
				out[name] = ""
			}
			continue
		}
		if !dim.IsValidValue(value) {
			return nil, validationf("invalid value %q for dimension %q", value, name)
		}
		out[name] = value
	}
	return out, nil
}

// resolveParentRef resolves a parent locator and confirms the parent
// exists. A dangling reference is a validation failure, not a not-found:
// the caller named a parent that cannot be attached to.
func (s *Store) resolveParentRef(snap *facetid.Snapshot, ref string) (string, error) {
	if facetid.IsUUID(ref) {
		if !snap.Contains(ref) {
			return "", validationf("parent document %q does not exist", ref)
		}
		return ref, nil
	}

	resolved, err := snap.Resolve(ref)
	if err != nil {
		if errors.Is(err, facetid.ErrAmbiguous) {
			return "", wrapKind(ErrAmbiguous, err)
		}
		return "", validationf("parent document %q does not exist", ref)
	}
	return resolved, nil
}

// applyUpdate validates and writes one document's partial update inside
// the caller's transaction.
func (s *Store) applyUpdate(tx *gorm.DB, snap *facetid.Snapshot, target string, req UpdateRequest) error {
	doc, ok := snap.Document(target)
	if !ok {
		return notFoundf("%q", target)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}

	if len(req.Dimensions) > 0 {
		validated, err := s.validateDimensions(snap, req.Dimensions, true)
		if err != nil {
			return err
		}

		refField := s.registry.RefField()
		if newParent, ok := validated[refField]; ok && newParent != "" {
			if snap.WouldCycle(target, newParent) {
				return conflictf("setting parent of %q to %q would create a cycle", target, newParent)
			}
		}

		merged := doc.Dimensions.Clone()
		for name, value := range validated {
			if value == "" {
				delete(merged, name)
				continue
			}
			merged[name] = value
		}
		updates["dimensions"] = merged
	}

	if len(updates) == 0 {
		return nil
	}
	result := tx.Model(&models.Document{}).Where("uuid = ?", target).Updates(updates)
	if result.Error != nil {
		return storagef("failed to update document: %s", result.Error)
	}
	return nil
}

func exportDocument(doc *models.Document, id string) Document {
	return Document{
		UUID:         doc.UUID,
		UserFacingID: id,
		Title:        doc.Title,
		Body:         doc.Body,
		Dimensions:   doc.Dimensions.Clone(),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
