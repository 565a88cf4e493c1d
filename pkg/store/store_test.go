package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/facet/pkg/database"
	"github.com/hashicorp-forge/facet/pkg/dimension"
)

func taskDimensions() dimension.Config {
	return dimension.Config{
		Dimensions: []dimension.Dimension{
			{
				Name:         "status",
				Kind:         dimension.Enumerated,
				Values:       []string{"pending", "completed"},
				Prefixes:     map[string]string{"completed": "c"},
				DefaultValue: "pending",
			},
			{
				Name:     "parent",
				Kind:     dimension.Hierarchical,
				RefField: "parent_uuid",
			},
		},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(Options{
		Database:   database.Config{Driver: database.DriverSQLite, Path: ":memory:"},
		Dimensions: taskDimensions(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		s := openTestStore(t)
		assert.NotNil(t, s.Registry())
	})

	t.Run("invalid dimension config", func(t *testing.T) {
		_, err := Open(Options{
			Database: database.Config{Path: ":memory:"},
			Dimensions: dimension.Config{
				Dimensions: []dimension.Dimension{
					{Name: "status", Kind: dimension.Enumerated},
				},
			},
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("bad database config", func(t *testing.T) {
		_, err := Open(Options{
			Database:   database.Config{Driver: "oracle"},
			Dimensions: taskDimensions(),
		})
		require.ErrorIs(t, err, ErrStorage)
	})
}

func TestAdd(t *testing.T) {
	t.Run("assigns sequential ids per scope", func(t *testing.T) {
		s := openTestStore(t)

		a, err := s.Add("task a", nil)
		require.NoError(t, err)
		b, err := s.Add("task b", map[string]string{"status": "completed"})
		require.NoError(t, err)
		c, err := s.Add("task c", map[string]string{"status": "pending"})
		require.NoError(t, err)

		docA, err := s.Get(a)
		require.NoError(t, err)
		assert.Equal(t, "1", docA.UserFacingID)

		docB, err := s.Get(b)
		require.NoError(t, err)
		assert.Equal(t, "c1", docB.UserFacingID)

		docC, err := s.Get(c)
		require.NoError(t, err)
		assert.Equal(t, "2", docC.UserFacingID)
	})

	t.Run("unknown dimension", func(t *testing.T) {
		s := openTestStore(t)
		_, err := s.Add("bad", map[string]string{"priority": "high"})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("value outside dimension set", func(t *testing.T) {
		s := openTestStore(t)
		_, err := s.Add("bad", map[string]string{"status": "archived"})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("dangling parent reference", func(t *testing.T) {
		s := openTestStore(t)
		_, err := s.Add("orphan", map[string]string{
			"parent_uuid": "99999999-0000-0000-0000-000000000000",
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("hierarchical dimension name rejected as key", func(t *testing.T) {
		s := openTestStore(t)
		_, err := s.Add("bad", map[string]string{"parent": "1"})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("parent by user-facing id", func(t *testing.T) {
		s := openTestStore(t)

		root, err := s.Add("root", nil)
		require.NoError(t, err)
		child, err := s.Add("child", map[string]string{"parent_uuid": "1"})
		require.NoError(t, err)

		doc, err := s.Get(child)
		require.NoError(t, err)
		assert.Equal(t, root, doc.Dimensions["parent_uuid"])
		assert.Equal(t, "1.1", doc.UserFacingID)
	})
}

func TestGet(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Add("findable", map[string]string{"status": "completed"})
	require.NoError(t, err)

	t.Run("by uuid", func(t *testing.T) {
		doc, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "findable", doc.Title)
		assert.Equal(t, "c1", doc.UserFacingID)
		assert.False(t, doc.CreatedAt.IsZero())
	})

	t.Run("by user-facing id", func(t *testing.T) {
		doc, err := s.Get("c1")
		require.NoError(t, err)
		assert.Equal(t, id, doc.UUID)
	})

	t.Run("unknown uuid", func(t *testing.T) {
		_, err := s.Get("99999999-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown user-facing id", func(t *testing.T) {
		_, err := s.Get("c9")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty locator", func(t *testing.T) {
		_, err := s.Get("")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestResolveRoundTrip(t *testing.T) {
	s := openTestStore(t)

	root, err := s.Add("root", nil)
	require.NoError(t, err)
	done, err := s.Add("done", map[string]string{"status": "completed"})
	require.NoError(t, err)
	child, err := s.Add("child", map[string]string{"parent_uuid": root})
	require.NoError(t, err)

	// resolve(render(d)) == d.uuid for every document.
	for _, uuid := range []string{root, done, child} {
		doc, err := s.Get(uuid)
		require.NoError(t, err)

		resolved, err := s.Resolve(doc.UserFacingID)
		require.NoError(t, err)
		assert.Equal(t, uuid, resolved)
	}

	t.Run("uuid passthrough", func(t *testing.T) {
		resolved, err := s.Resolve(root)
		require.NoError(t, err)
		assert.Equal(t, root, resolved)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("title and body", func(t *testing.T) {
		s := openTestStore(t)
		id, err := s.Add("old title", nil)
		require.NoError(t, err)

		before, err := s.Get(id)
		require.NoError(t, err)

		title := "new title"
		body := "new body"
		require.NoError(t, s.Update(id, UpdateRequest{Title: &title, Body: &body}))

		doc, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "new title", doc.Title)
		assert.Equal(t, "new body", doc.Body)
		assert.Equal(t, before.CreatedAt, doc.CreatedAt)
		assert.Equal(t, before.UUID, doc.UUID)
	})

	t.Run("by user-facing id", func(t *testing.T) {
		s := openTestStore(t)
		id, err := s.Add("target", nil)
		require.NoError(t, err)

		title := "renamed"
		require.NoError(t, s.Update("1", UpdateRequest{Title: &title}))

		doc, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "renamed", doc.Title)
	})

	t.Run("dimension change re-renders ids", func(t *testing.T) {
		s := openTestStore(t)

		a, err := s.Add("A", nil)
		require.NoError(t, err)
		_, err = s.Add("B", map[string]string{"status": "completed"})
		require.NoError(t, err)
		c, err := s.Add("C", map[string]string{"parent_uuid": a})
		require.NoError(t, err)

		docC, err := s.Get(c)
		require.NoError(t, err)
		assert.Equal(t, "1.1", docC.UserFacingID)

		// Completing A moves it into the completed scope ahead of B
		// (creation order) and re-renders C under the new parent ID.
		require.NoError(t, s.Update(a, UpdateRequest{
			Dimensions: map[string]string{"status": "completed"},
		}))

		docA, err := s.Get(a)
		require.NoError(t, err)
		assert.Equal(t, "c1", docA.UserFacingID)

		docC, err = s.Get(c)
		require.NoError(t, err)
		assert.Equal(t, "c1.1", docC.UserFacingID)
	})

	t.Run("clearing a dimension reverts to default", func(t *testing.T) {
		s := openTestStore(t)
		id, err := s.Add("task", map[string]string{"status": "completed"})
		require.NoError(t, err)

		require.NoError(t, s.Update(id, UpdateRequest{
			Dimensions: map[string]string{"status": ""},
		}))

		doc, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "1", doc.UserFacingID)
		_, present := doc.Dimensions["status"]
		assert.False(t, present)
	})

	t.Run("reparenting", func(t *testing.T) {
		s := openTestStore(t)
		a, err := s.Add("A", nil)
		require.NoError(t, err)
		b, err := s.Add("B", nil)
		require.NoError(t, err)
		c, err := s.Add("C", map[string]string{"parent_uuid": a})
		require.NoError(t, err)

		require.NoError(t, s.Update(c, UpdateRequest{
			Dimensions: map[string]string{"parent_uuid": b},
		}))

		doc, err := s.Get(c)
		require.NoError(t, err)
		assert.Equal(t, "2.1", doc.UserFacingID)
	})

	t.Run("self parent is a conflict", func(t *testing.T) {
		s := openTestStore(t)
		id, err := s.Add("loner", nil)
		require.NoError(t, err)

		err = s.Update(id, UpdateRequest{
			Dimensions: map[string]string{"parent_uuid": id},
		})
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("descendant parent is a conflict", func(t *testing.T) {
		s := openTestStore(t)
		root, err := s.Add("root", nil)
		require.NoError(t, err)
		child, err := s.Add("child", map[string]string{"parent_uuid": root})
		require.NoError(t, err)
		grandchild, err := s.Add("grandchild", map[string]string{"parent_uuid": child})
		require.NoError(t, err)

		err = s.Update(root, UpdateRequest{
			Dimensions: map[string]string{"parent_uuid": grandchild},
		})
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unknown locator", func(t *testing.T) {
		s := openTestStore(t)
		title := "x"
		err := s.Update("7", UpdateRequest{Title: &title})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	t.Run("renumbers later siblings", func(t *testing.T) {
		s := openTestStore(t)

		_, err := s.Add("first", nil)
		require.NoError(t, err)
		second, err := s.Add("second", nil)
		require.NoError(t, err)
		third, err := s.Add("third", nil)
		require.NoError(t, err)

		docThird, err := s.Get(third)
		require.NoError(t, err)
		assert.Equal(t, "3", docThird.UserFacingID)

		require.NoError(t, s.Delete(second, false))

		docThird, err = s.Get(third)
		require.NoError(t, err)
		assert.Equal(t, "2", docThird.UserFacingID)
	})

	t.Run("by user-facing id", func(t *testing.T) {
		s := openTestStore(t)
		id, err := s.Add("victim", nil)
		require.NoError(t, err)

		require.NoError(t, s.Delete("1", false))
		_, err = s.Get(id)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("children without cascade is a conflict", func(t *testing.T) {
		s := openTestStore(t)
		root, err := s.Add("root", nil)
		require.NoError(t, err)
		_, err = s.Add("child", map[string]string{"parent_uuid": root})
		require.NoError(t, err)

		err = s.Delete(root, false)
		require.ErrorIs(t, err, ErrConflict)

		// The parent survives a refused delete.
		_, err = s.Get(root)
		require.NoError(t, err)
	})

	t.Run("cascade removes transitive children", func(t *testing.T) {
		s := openTestStore(t)
		root, err := s.Add("root", nil)
		require.NoError(t, err)
		child, err := s.Add("child", map[string]string{"parent_uuid": root})
		require.NoError(t, err)
		grandchild, err := s.Add("grandchild", map[string]string{"parent_uuid": child})
		require.NoError(t, err)
		bystander, err := s.Add("bystander", nil)
		require.NoError(t, err)

		require.NoError(t, s.Delete(root, true))

		for _, uuid := range []string{root, child, grandchild} {
			_, err := s.Get(uuid)
			require.ErrorIs(t, err, ErrNotFound)
		}

		doc, err := s.Get(bystander)
		require.NoError(t, err)
		assert.Equal(t, "1", doc.UserFacingID)
	})

	t.Run("unknown locator", func(t *testing.T) {
		s := openTestStore(t)
		err := s.Delete("1", false)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteByUUIDs(t *testing.T) {
	s := openTestStore(t)

	a, err := s.Add("a", nil)
	require.NoError(t, err)
	b, err := s.Add("b", nil)
	require.NoError(t, err)

	n, err := s.DeleteByUUIDs([]string{a, "99999999-0000-0000-0000-000000000000"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get(b)
	require.NoError(t, err)
}

func TestCount(t *testing.T) {
	s := openTestStore(t)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	a, err := s.Add("a", nil)
	require.NoError(t, err)
	_, err = s.Add("b", map[string]string{"status": "completed"})
	require.NoError(t, err)

	n, err = s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Delete(a, false))

	n, err = s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClose(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Add("doomed", nil)
	require.NoError(t, err)

	require.NoError(t, s.Close())

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, s.Close())
	})

	t.Run("operations rejected after close", func(t *testing.T) {
		_, err := s.Add("late", nil)
		require.ErrorIs(t, err, ErrClosed)

		_, err = s.Get("1")
		require.ErrorIs(t, err, ErrClosed)

		_, err = s.List(ListOptions{})
		require.ErrorIs(t, err, ErrClosed)

		_, err = s.Count()
		require.ErrorIs(t, err, ErrClosed)

		require.ErrorIs(t, s.Update("1", UpdateRequest{}), ErrClosed)
		require.ErrorIs(t, s.Delete("1", false), ErrClosed)

		_, err = s.Resolve("1")
		require.ErrorIs(t, err, ErrClosed)
	})
}

// TestGaplessSequences checks the sequence-number invariant directly: in
// every sibling scope the assigned numbers are exactly 1..n.
func TestGaplessSequences(t *testing.T) {
	s := openTestStore(t)

	var uuids []string
	for i := 0; i < 5; i++ {
		id, err := s.Add("task", nil)
		require.NoError(t, err)
		uuids = append(uuids, id)
	}

	// Delete from the middle twice.
	require.NoError(t, s.Delete(uuids[1], false))
	require.NoError(t, s.Delete(uuids[3], false))

	docs, err := s.List(ListOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 3)

	seen := map[string]bool{}
	for _, doc := range docs {
		seen[doc.UserFacingID] = true
	}
	assert.Equal(t, map[string]bool{"1": true, "2": true, "3": true}, seen)
}
