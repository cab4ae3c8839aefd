package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/translatekit/searchkit/internal/engine"
	"github.com/translatekit/searchkit/model"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	eng, err := engine.New(":memory:")
	require.NoError(t, err, "Failed to create test engine")
	t.Cleanup(func() { _ = eng.Close() })

	router := gin.New()
	SetupRoutes(router, eng.FieldIndex, eng.FieldSearch, eng.PrefixIndex, eng.PrefixSearch)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestUpsertAndSearch(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/records", model.RecordInput{
		ID:           "doc-1",
		ResourceType: "segment",
		Content:      "Paris in spring",
		Fields:       map[string]any{"title": "Paris"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/search", map[string]any{"query": "paris"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result model.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "doc-1", result.Hits[0].ID)
	assert.NotEmpty(t, result.QueryID)
}

func TestUpsertRejectsEmptyID(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/records", model.RecordInput{
		ResourceType: "segment",
		Content:      "orphan",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(ErrorCodeInvalidRecord))
}

func TestBulkUpsertRollsBack(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/records", []model.RecordInput{
		{ID: "a", ResourceType: "segment", Content: "first"},
		{ID: "", ResourceType: "segment", Content: "broken"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/records/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats model.FieldIndexStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalRecords)
}

func TestSearchRejectsInvalidConfig(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/search", map[string]any{
		"query":  "paris",
		"config": map[string]any{"combine_with": "XOR"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(ErrorCodeInvalidRequest))
}

func TestSearchRejectsMissingQuery(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/search", map[string]any{"resource_type": "segment"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(ErrorCodeInvalidJSON))
}

func TestSearchFieldEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/records", model.RecordInput{
		ID: "doc-1", ResourceType: "segment", Content: "x",
		Fields: map[string]any{"name": "gene"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/search/field", map[string]any{
		"query":      "gene",
		"field_name": "name",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result model.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Hits, 1)
	assert.InDelta(t, 1.0, result.Hits[0].Score, 1e-9)
}

func TestGetRecordEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/records", model.RecordInput{
		ID: "doc-1", ResourceType: "segment", Content: "Paris",
		Fields: map[string]any{"title": "Paris"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/records/doc-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var payload struct {
		Record       model.IndexedRecord `json:"record"`
		FieldEntries []model.FieldEntry  `json:"field_entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "doc-1", payload.Record.ID)
	assert.Equal(t, "paris", payload.Record.NormalizedContent)
	require.Len(t, payload.FieldEntries, 1)
	assert.Equal(t, "title", payload.FieldEntries[0].FieldName)

	w = doJSON(t, router, http.MethodGet, "/records/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), string(ErrorCodeRecordNotFound))
}

func TestRemoveAndClearEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, id := range []string{"a", "b"} {
		w := doJSON(t, router, http.MethodPost, "/records", model.RecordInput{
			ID: id, ResourceType: "segment", Content: id,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodDelete, "/records/a", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/records?resource_type=segment", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/records/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats model.FieldIndexStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalRecords)
}

func TestPrefixEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/prefix/records", model.RecordInput{
		ID: "doc-1", ResourceType: "book", Content: "Genesis",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/prefix/search", map[string]any{"query": "gen"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result model.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "doc-1", result.Hits[0].ID)
	assert.Equal(t, "exact_prefix", result.Hits[0].MatchType)

	w = doJSON(t, router, http.MethodPost, "/prefix/search/exact", map[string]any{"query": "Ge"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Genesis", result.Hits[0].Content)

	w = doJSON(t, router, http.MethodGet, "/prefix/records/doc-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rec model.PrefixRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "genesis", rec.Words)

	w = doJSON(t, router, http.MethodGet, "/prefix/records/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats model.PrefixIndexStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalRecords)
}

func TestPrefixSearchRejectsInvalidConfig(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/prefix/search", map[string]any{
		"query":  "gen",
		"config": map[string]any{"fuzzy_threshold": 1.5},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(ErrorCodeInvalidRequest))
}
