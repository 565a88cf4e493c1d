package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is the stored entity. The user-facing ID is intentionally not a
// column: it is derived from live dimension values and sibling ordering at
// read time, so renumbering after deletions can never leave a stale
// identifier behind.
type Document struct {
	UUID string `gorm:"type:varchar(36);primaryKey" json:"uuid"`

	Title string `gorm:"type:varchar(500);not null" json:"title"`
	Body  string `gorm:"type:text" json:"body"`

	// Dimensions maps dimension names to string values. Hierarchical
	// dimensions store the parent UUID under their ref field key.
	Dimensions DimensionMap `gorm:"type:json" json:"dimensions"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;index:idx_documents_created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

// TableName specifies the table name.
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == "" {
		d.UUID = uuid.NewString()
	}
	if d.Dimensions == nil {
		d.Dimensions = DimensionMap{}
	}
	return nil
}

// ParentUUID returns the parent reference stored under refField, or "" for
// root documents (or stores without a hierarchy).
func (d *Document) ParentUUID(refField string) string {
	if refField == "" {
		return ""
	}
	return d.Dimensions[refField]
}

// ListDocumentsOrdered returns every document in creation order, with UUID
// as the tiebreaker so the ordering is total. This is the snapshot the ID
// allocator computes sibling scopes from.
func ListDocumentsOrdered(db *gorm.DB) ([]Document, error) {
	var docs []Document
	if err := db.Order("created_at, uuid").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocumentsByUUIDs removes the given documents in one statement and
// returns the number of rows deleted.
func DeleteDocumentsByUUIDs(db *gorm.DB, uuids []string) (int64, error) {
	if len(uuids) == 0 {
		return 0, nil
	}
	result := db.Where("uuid IN ?", uuids).Delete(&Document{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete documents: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CountDocuments returns the total number of stored documents.
func CountDocuments(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&Document{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
