package fieldsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/translatekit/searchkit/config"
	"github.com/translatekit/searchkit/internal/fieldindex"
	"github.com/translatekit/searchkit/internal/lexutil"
	"github.com/translatekit/searchkit/model"
	"github.com/translatekit/searchkit/store"
)

func newTestServices(t *testing.T) (*fieldindex.Service, *Service) {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err, "Failed to open in-memory store")
	t.Cleanup(func() { _ = db.Close() })

	indexer, err := fieldindex.NewService(db)
	require.NoError(t, err)
	searcher, err := NewService(db)
	require.NoError(t, err)
	return indexer, searcher
}

func TestSearchRanksExactAboveSubstring(t *testing.T) {
	indexer, searcher := newTestServices(t)

	require.NoError(t, indexer.Index("exact", "segment", "paris", map[string]any{"title": "paris"}))
	require.NoError(t, indexer.Index("partial", "segment", "paris travel guide", map[string]any{"title": "paris travel guide"}))

	result, err := searcher.Search("paris", "", 0, config.DefaultFieldBoostConfig())
	require.NoError(t, err)

	require.Len(t, result.Hits, 2)
	assert.Equal(t, "exact", result.Hits[0].ID)
	assert.Equal(t, "partial", result.Hits[1].ID)
	assert.Greater(t, result.Hits[0].Score, result.Hits[1].Score)
	assert.Equal(t, 2, result.Total)
	assert.NotEmpty(t, result.QueryID)
}

func TestSearchCombineModes(t *testing.T) {
	indexer, searcher := newTestServices(t)

	// "both" matches in two fields; "single" matches exactly in one.
	require.NoError(t, indexer.Index("both", "segment", "paris twice", map[string]any{
		"title":       "paris",
		"description": "paris city",
	}))
	require.NoError(t, indexer.Index("single", "segment", "paris once", map[string]any{
		"title": "paris",
	}))

	orCfg := config.DefaultFieldBoostConfig()
	orCfg.NormalizeScores = false

	result, err := searcher.Search("paris", "", 0, orCfg)
	require.NoError(t, err)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, "both", result.Hits[0].ID, "un-normalized OR rewards matching more fields")

	andCfg := config.DefaultFieldBoostConfig()
	andCfg.CombineWith = config.CombineAND

	result, err = searcher.Search("paris", "", 0, andCfg)
	require.NoError(t, err)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, "single", result.Hits[0].ID, "AND takes the weakest matched field")
}

func TestSearchFieldBoosts(t *testing.T) {
	indexer, searcher := newTestServices(t)

	require.NoError(t, indexer.Index("title-hit", "segment", "a", map[string]any{"title": "paris"}))
	require.NoError(t, indexer.Index("desc-hit", "segment", "b", map[string]any{"description": "paris"}))

	cfg := config.DefaultFieldBoostConfig()
	cfg.FieldBoosts = map[string]float64{"title": 5.0}

	result, err := searcher.Search("paris", "", 0, cfg)
	require.NoError(t, err)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, "title-hit", result.Hits[0].ID)
	assert.InDelta(t, 5.0, result.Hits[0].Score, 1e-9)
	assert.InDelta(t, 1.0, result.Hits[1].Score, 1e-9)
}

func TestSearchMinScoreFloor(t *testing.T) {
	indexer, searcher := newTestServices(t)

	require.NoError(t, indexer.Index("weak", "segment", "x", map[string]any{
		"notes": "paris appears deep inside a very long rambling field value here",
	}))

	cfg := config.DefaultFieldBoostConfig()
	cfg.MinScore = 0.9

	result, err := searcher.Search("paris", "", 0, cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
	assert.Equal(t, 0, result.Total)
}

func TestSearchResourceTypeScope(t *testing.T) {
	indexer, searcher := newTestServices(t)

	require.NoError(t, indexer.Index("seg", "segment", "a", map[string]any{"title": "paris"}))
	require.NoError(t, indexer.Index("glo", "glossary", "b", map[string]any{"title": "paris"}))

	result, err := searcher.Search("paris", "glossary", 0, config.DefaultFieldBoostConfig())
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "glo", result.Hits[0].ID)
}

func TestSearchCaseSensitivity(t *testing.T) {
	indexer, searcher := newTestServices(t)

	require.NoError(t, indexer.Index("doc", "segment", "Paris", map[string]any{"title": "Paris"}))

	cfg := config.DefaultFieldBoostConfig()
	result, err := searcher.Search("paris", "", 0, cfg)
	require.NoError(t, err)
	assert.Len(t, result.Hits, 1, "case-insensitive search should match 'Paris'")

	cfg.CaseSensitive = true
	result, err = searcher.Search("paris", "", 0, cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Hits, "case-sensitive search should reject 'Paris' for 'paris'")
}

func TestSearchFuzzyFallback(t *testing.T) {
	indexer, searcher := newTestServices(t)

	// "gane" shares no substring with "gene", so only the fuzzy tier can
	// reach it (lev=1, sim=0.75, scored 0.75*0.5).
	require.NoError(t, indexer.Index("typo", "segment", "gane", map[string]any{"title": "gane"}))

	cfg := config.DefaultFieldBoostConfig()
	result, err := searcher.Search("gene", "", 0, cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Hits, "fuzzy disabled should not match a typo")

	cfg.Fuzzy = true
	cfg.Fuzziness = 0.5
	result, err = searcher.Search("gene", "", 0, cfg)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "typo", result.Hits[0].ID)
	assert.InDelta(t, 0.375, result.Hits[0].Score, 1e-9)

	cfg.Fuzziness = 0.8
	result, err = searcher.Search("gene", "", 0, cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Hits, "similarity below the threshold must not match")
}

func TestSearchEscapesLikeWildcards(t *testing.T) {
	indexer, searcher := newTestServices(t)

	require.NoError(t, indexer.Index("literal", "segment", "100% cotton", map[string]any{"label": "100% cotton"}))
	require.NoError(t, indexer.Index("plain", "segment", "1000 cotton", map[string]any{"label": "1000 cotton"}))

	result, err := searcher.Search("100%", "", 0, config.DefaultFieldBoostConfig())
	require.NoError(t, err)
	require.Len(t, result.Hits, 1, "% in the query must match literally, not as a wildcard")
	assert.Equal(t, "literal", result.Hits[0].ID)
}

func TestSearchHighlighting(t *testing.T) {
	indexer, searcher := newTestServices(t)

	original := "Paris in the spring"
	require.NoError(t, indexer.Index("doc", "segment", original, map[string]any{"title": "Paris in the spring"}))

	result, err := searcher.Search("paris", "", 0, config.DefaultFieldBoostConfig())
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Contains(t, result.Hits[0].Content, "<mark>Paris</mark>")
	assert.Equal(t, original, lexutil.StripHighlights(result.Hits[0].Content))

	cfg := config.DefaultFieldBoostConfig()
	cfg.EnableHighlighting = false
	result, err = searcher.Search("paris", "", 0, cfg)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, original, result.Hits[0].Content)
}

func TestSearchMatchedFields(t *testing.T) {
	indexer, searcher := newTestServices(t)

	require.NoError(t, indexer.Index("doc", "segment", "x", map[string]any{
		"title":  "paris",
		"author": "paris hilton",
		"year":   1999,
	}))

	result, err := searcher.Search("paris", "", 0, config.DefaultFieldBoostConfig())
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, []string{"author", "title"}, result.Hits[0].MatchedFields)
}

func TestSearchLimitAndTotal(t *testing.T) {
	indexer, searcher := newTestServices(t)

	records := []model.RecordInput{
		{ID: "a", ResourceType: "segment", Content: "pa", Fields: map[string]any{"title": "paris"}},
		{ID: "b", ResourceType: "segment", Content: "par", Fields: map[string]any{"title": "paris"}},
		{ID: "c", ResourceType: "segment", Content: "pari", Fields: map[string]any{"title": "paris"}},
	}
	require.NoError(t, indexer.BulkIndex(records))

	result, err := searcher.Search("paris", "", 2, config.DefaultFieldBoostConfig())
	require.NoError(t, err)
	assert.Len(t, result.Hits, 2)
	assert.Equal(t, 3, result.Total, "Total counts all qualifying records, not just the page")

	// Equal scores fall back to shorter content first.
	assert.Equal(t, "a", result.Hits[0].ID)
	assert.Equal(t, "b", result.Hits[1].ID)
}

func TestSearchEmptyQuery(t *testing.T) {
	indexer, searcher := newTestServices(t)
	require.NoError(t, indexer.Index("doc", "segment", "x", map[string]any{"title": "paris"}))

	result, err := searcher.Search("   ", "", 0, config.DefaultFieldBoostConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
	assert.NotEmpty(t, result.QueryID)
}

func TestSearchField(t *testing.T) {
	indexer, searcher := newTestServices(t)

	require.NoError(t, indexer.Index("exact", "segment", "a", map[string]any{"name": "gene"}))
	require.NoError(t, indexer.Index("prefix", "segment", "b", map[string]any{"name": "genetics"}))
	require.NoError(t, indexer.Index("contains", "segment", "c", map[string]any{"name": "oxygene"}))
	require.NoError(t, indexer.Index("other", "segment", "d", map[string]any{"title": "gene"}))

	result, err := searcher.SearchField("gene", "name", 0, "", 0, false, 0)
	require.NoError(t, err)

	require.Len(t, result.Hits, 3, "only the named field is searched")
	assert.Equal(t, "exact", result.Hits[0].ID)
	assert.Equal(t, "prefix", result.Hits[1].ID)
	assert.Equal(t, "contains", result.Hits[2].ID)
	assert.InDelta(t, 1.0, result.Hits[0].Score, 1e-9)
	assert.InDelta(t, 0.9, result.Hits[1].Score, 1e-9)
	assert.InDelta(t, 0.7, result.Hits[2].Score, 1e-9)
	assert.Equal(t, []string{"name"}, result.Hits[0].MatchedFields)
}

func TestSearchFieldFuzzy(t *testing.T) {
	indexer, searcher := newTestServices(t)

	// One edit away from the query; invisible without the fuzzy tier.
	require.NoError(t, indexer.Index("typo", "segment", "a", map[string]any{"name": "gane"}))

	result, err := searcher.SearchField("gene", "name", 0, "", 0, false, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Hits)

	result, err = searcher.SearchField("gene", "name", 0, "", 0, true, 0.5)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	// similarity 0.75, halved for the fuzzy tier.
	assert.InDelta(t, 0.375, result.Hits[0].Score, 1e-9)
}

func TestSearchFieldBoost(t *testing.T) {
	indexer, searcher := newTestServices(t)

	require.NoError(t, indexer.Index("doc", "segment", "a", map[string]any{"name": "gene"}))

	boosted, err := searcher.SearchField("gene", "name", 3.0, "", 0, false, 0)
	require.NoError(t, err)
	require.Len(t, boosted.Hits, 1)
	assert.InDelta(t, 3.0, boosted.Hits[0].Score, 1e-9)

	// Non-positive boosts fall back to 1.0 instead of erasing scores.
	unboosted, err := searcher.SearchField("gene", "name", -2.0, "", 0, false, 0)
	require.NoError(t, err)
	require.Len(t, unboosted.Hits, 1)
	assert.InDelta(t, 1.0, unboosted.Hits[0].Score, 1e-9)
}
