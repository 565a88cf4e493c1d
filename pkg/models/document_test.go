package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Document{}))
	return db
}

func TestDocumentBeforeCreate(t *testing.T) {
	db := setupTestDB(t)

	t.Run("assigns UUID when empty", func(t *testing.T) {
		doc := Document{Title: "untitled"}
		require.NoError(t, db.Create(&doc).Error)

		assert.NotEmpty(t, doc.UUID)
		assert.Len(t, doc.UUID, 36)
		assert.NotNil(t, doc.Dimensions)
	})

	t.Run("preserves caller-assigned UUID", func(t *testing.T) {
		doc := Document{
			UUID:  "11111111-2222-3333-4444-555555555555",
			Title: "explicit",
		}
		require.NoError(t, db.Create(&doc).Error)
		assert.Equal(t, "11111111-2222-3333-4444-555555555555", doc.UUID)
	})

	t.Run("sets timestamps", func(t *testing.T) {
		doc := Document{Title: "timed"}
		require.NoError(t, db.Create(&doc).Error)

		assert.False(t, doc.CreatedAt.IsZero())
		assert.False(t, doc.UpdatedAt.IsZero())
	})
}

func TestDimensionMapRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	doc := Document{
		Title: "task",
		Dimensions: DimensionMap{
			"status":      "completed",
			"parent_uuid": "11111111-2222-3333-4444-555555555555",
		},
	}
	require.NoError(t, db.Create(&doc).Error)

	var loaded Document
	require.NoError(t, db.Where("uuid = ?", doc.UUID).First(&loaded).Error)
	assert.Equal(t, "completed", loaded.Dimensions["status"])
	assert.Equal(t, "11111111-2222-3333-4444-555555555555",
		loaded.ParentUUID("parent_uuid"))
}

func TestListDocumentsOrdered(t *testing.T) {
	db := setupTestDB(t)

	// Same created_at forces the uuid tiebreaker.
	now := time.Now().UTC().Truncate(time.Second)
	for _, id := range []string{
		"cccccccc-0000-0000-0000-000000000000",
		"aaaaaaaa-0000-0000-0000-000000000000",
		"bbbbbbbb-0000-0000-0000-000000000000",
	} {
		doc := Document{UUID: id, Title: id[:8], CreatedAt: now, UpdatedAt: now}
		require.NoError(t, db.Create(&doc).Error)
	}

	docs, err := ListDocumentsOrdered(db)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "aaaaaaaa-0000-0000-0000-000000000000", docs[0].UUID)
	assert.Equal(t, "bbbbbbbb-0000-0000-0000-000000000000", docs[1].UUID)
	assert.Equal(t, "cccccccc-0000-0000-0000-000000000000", docs[2].UUID)
}

func TestDeleteDocumentsByUUIDs(t *testing.T) {
	db := setupTestDB(t)

	var uuids []string
	for i := 0; i < 3; i++ {
		doc := Document{Title: "doomed"}
		require.NoError(t, db.Create(&doc).Error)
		uuids = append(uuids, doc.UUID)
	}

	t.Run("deletes in one statement", func(t *testing.T) {
		n, err := DeleteDocumentsByUUIDs(db, uuids[:2])
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		count, err := CountDocuments(db)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("empty slice is a no-op", func(t *testing.T) {
		n, err := DeleteDocumentsByUUIDs(db, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
