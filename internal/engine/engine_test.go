package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/translatekit/searchkit/config"
	"github.com/translatekit/searchkit/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	eng, err := New(":memory:")
	require.NoError(t, err, "Failed to create test engine")
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestEngineWiresBothStores(t *testing.T) {
	eng := newTestEngine(t)

	require.NoError(t, eng.FieldIndex.Index("doc-1", "segment", "Paris in spring", map[string]any{
		"title": "Paris",
	}))
	require.NoError(t, eng.PrefixIndex.Index("doc-1", "segment", "Paris in spring"))

	fieldResult, err := eng.FieldSearch.Search("paris", "", 0, config.DefaultFieldBoostConfig())
	require.NoError(t, err)
	require.Len(t, fieldResult.Hits, 1)
	assert.Equal(t, "doc-1", fieldResult.Hits[0].ID)

	prefixResult, err := eng.PrefixSearch.Search("par", "", 0, config.DefaultPrefixMatchConfig())
	require.NoError(t, err)
	require.Len(t, prefixResult.Hits, 1)
	assert.Equal(t, "doc-1", prefixResult.Hits[0].ID)
}

func TestEngineStoresAreIndependent(t *testing.T) {
	eng := newTestEngine(t)

	// A record in the field store is invisible to the prefix store and
	// vice versa.
	require.NoError(t, eng.FieldIndex.Index("field-only", "segment", "alpha", map[string]any{"title": "alpha"}))
	require.NoError(t, eng.PrefixIndex.Index("prefix-only", "segment", "alpha"))

	prefixResult, err := eng.PrefixSearch.Search("alp", "", 0, config.DefaultPrefixMatchConfig())
	require.NoError(t, err)
	require.Len(t, prefixResult.Hits, 1)
	assert.Equal(t, "prefix-only", prefixResult.Hits[0].ID)

	fieldStats, err := eng.FieldIndex.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, fieldStats.TotalRecords)

	prefixStats, err := eng.PrefixIndex.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, prefixStats.TotalRecords)
}

func TestEngineBulkAcrossStores(t *testing.T) {
	eng := newTestEngine(t)

	records := []model.RecordInput{
		{ID: "a", ResourceType: "segment", Content: "alpha", Fields: map[string]any{"title": "alpha"}},
		{ID: "b", ResourceType: "segment", Content: "beta", Fields: map[string]any{"title": "beta"}},
	}
	require.NoError(t, eng.FieldIndex.BulkIndex(records))
	require.NoError(t, eng.PrefixIndex.BulkIndex(records))

	fieldStats, err := eng.FieldIndex.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, fieldStats.TotalRecords)

	prefixStats, err := eng.PrefixIndex.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, prefixStats.TotalRecords)
}
