package facetid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSegment(t *testing.T) {
	t.Run("bare sequence", func(t *testing.T) {
		seg, err := ParseSegment("7")
		require.NoError(t, err)
		assert.Equal(t, Segment{Prefix: "", Seq: 7}, seg)
	})

	t.Run("prefixed sequence", func(t *testing.T) {
		seg, err := ParseSegment("c3")
		require.NoError(t, err)
		assert.Equal(t, Segment{Prefix: "c", Seq: 3}, seg)
	})

	t.Run("multi-token prefix and multi-digit sequence", func(t *testing.T) {
		seg, err := ParseSegment("ch12")
		require.NoError(t, err)
		assert.Equal(t, Segment{Prefix: "ch", Seq: 12}, seg)
	})

	t.Run("missing sequence number", func(t *testing.T) {
		_, err := ParseSegment("c")
		require.Error(t, err)
	})

	t.Run("zero sequence rejected", func(t *testing.T) {
		_, err := ParseSegment("c0")
		require.Error(t, err)
	})

	t.Run("empty segment", func(t *testing.T) {
		_, err := ParseSegment("")
		require.Error(t, err)
	})
}

func TestParseID(t *testing.T) {
	t.Run("single level", func(t *testing.T) {
		segs, err := ParseID("c2")
		require.NoError(t, err)
		assert.Equal(t, []Segment{{Prefix: "c", Seq: 2}}, segs)
	})

	t.Run("three levels", func(t *testing.T) {
		segs, err := ParseID("1.c2.3")
		require.NoError(t, err)
		assert.Equal(t, []Segment{
			{Prefix: "", Seq: 1},
			{Prefix: "c", Seq: 2},
			{Prefix: "", Seq: 3},
		}, segs)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := ParseID("")
		require.Error(t, err)
	})

	t.Run("empty middle segment", func(t *testing.T) {
		_, err := ParseID("1..2")
		require.Error(t, err)
	})
}

func TestSegmentString(t *testing.T) {
	assert.Equal(t, "c3", Segment{Prefix: "c", Seq: 3}.String())
	assert.Equal(t, "3", Segment{Seq: 3}.String())
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.False(t, IsUUID("1.c2"))
	assert.False(t, IsUUID("c1"))
	assert.False(t, IsUUID(""))
	// Compact form is not a locator; only the canonical hyphenated form
	// bypasses ID resolution.
	assert.False(t, IsUUID("550e8400e29b41d4a716446655440000"))
}
