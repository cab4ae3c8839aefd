// Package api exposes the search subsystem over HTTP for the hosting
// application's indexing and search commands.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/translatekit/searchkit/config"
	interrors "github.com/translatekit/searchkit/internal/errors"
	"github.com/translatekit/searchkit/model"
	"github.com/translatekit/searchkit/services"
)

// API holds dependencies for API handlers: the four search services.
type API struct {
	fieldIndexer   services.FieldIndexer
	fieldSearcher  services.FieldSearcher
	prefixIndexer  services.PrefixIndexer
	prefixSearcher services.PrefixSearcher
}

// NewAPI creates a new API handler structure.
func NewAPI(fi services.FieldIndexer, fs services.FieldSearcher, pi services.PrefixIndexer, ps services.PrefixSearcher) *API {
	return &API{
		fieldIndexer:   fi,
		fieldSearcher:  fs,
		prefixIndexer:  pi,
		prefixSearcher: ps,
	}
}

// SetupRoutes defines all the API routes for the search services.
func SetupRoutes(router *gin.Engine, fi services.FieldIndexer, fs services.FieldSearcher, pi services.PrefixIndexer, ps services.PrefixSearcher) {
	apiHandler := NewAPI(fi, fs, pi, ps)

	router.GET("/health", apiHandler.HealthCheckHandler)

	recordRoutes := router.Group("/records")
	{
		recordRoutes.POST("", apiHandler.UpsertRecordHandler)      // Index one record
		recordRoutes.PUT("", apiHandler.BulkUpsertHandler)         // Index a batch atomically
		recordRoutes.GET("/:id", apiHandler.GetRecordHandler)
		recordRoutes.DELETE("/:id", apiHandler.RemoveRecordHandler)
		recordRoutes.DELETE("", apiHandler.ClearRecordsHandler)    // Optional ?resource_type=
		recordRoutes.GET("/stats", apiHandler.StatsHandler)
	}

	router.POST("/search", apiHandler.SearchHandler)
	router.POST("/search/field", apiHandler.SearchFieldHandler)

	prefixRoutes := router.Group("/prefix")
	{
		prefixRoutes.POST("/records", apiHandler.UpsertPrefixRecordHandler)
		prefixRoutes.PUT("/records", apiHandler.BulkUpsertPrefixHandler)
		prefixRoutes.GET("/records/:id", apiHandler.GetPrefixRecordHandler)
		prefixRoutes.DELETE("/records/:id", apiHandler.RemovePrefixRecordHandler)
		prefixRoutes.DELETE("/records", apiHandler.ClearPrefixRecordsHandler)
		prefixRoutes.GET("/records/stats", apiHandler.PrefixStatsHandler)
		prefixRoutes.POST("/search", apiHandler.PrefixSearchHandler)
		prefixRoutes.POST("/search/word", apiHandler.WordPrefixSearchHandler)
		prefixRoutes.POST("/search/exact", apiHandler.ExactPrefixSearchHandler)
	}
}

// HealthCheckHandler reports liveness.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// searchRequest is the body for field-boosted search.
type searchRequest struct {
	Query        string                      `json:"query" binding:"required"`
	ResourceType string                      `json:"resource_type"`
	Limit        int                         `json:"limit"`
	Config       *config.FieldBoostOverrides `json:"config,omitempty"`
}

// fieldSearchRequest is the body for single-field search.
type fieldSearchRequest struct {
	Query        string  `json:"query" binding:"required"`
	FieldName    string  `json:"field_name" binding:"required"`
	Boost        float64 `json:"boost"`
	ResourceType string  `json:"resource_type"`
	Limit        int     `json:"limit"`
	Fuzzy        bool    `json:"fuzzy"`
	Fuzziness    float64 `json:"fuzziness"`
}

// prefixSearchRequest is the body for prefix search.
type prefixSearchRequest struct {
	Query        string                       `json:"query" binding:"required"`
	ResourceType string                       `json:"resource_type"`
	Limit        int                          `json:"limit"`
	Config       *config.PrefixMatchOverrides `json:"config,omitempty"`
}

// UpsertRecordHandler indexes (or replaces) one record in the field-boost store.
func (api *API) UpsertRecordHandler(c *gin.Context) {
	var rec model.RecordInput
	if err := c.ShouldBindJSON(&rec); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}
	if err := api.fieldIndexer.Index(rec.ID, rec.ResourceType, rec.Content, rec.Fields); err != nil {
		sendIndexError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record '" + rec.ID + "' indexed"})
}

// BulkUpsertHandler indexes a batch of records atomically.
func (api *API) BulkUpsertHandler(c *gin.Context) {
	var records []model.RecordInput
	if err := c.ShouldBindJSON(&records); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}
	if err := api.fieldIndexer.BulkIndex(records); err != nil {
		sendIndexError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Indexed batch", "count": len(records)})
}

// GetRecordHandler returns one stored record with its field entries.
func (api *API) GetRecordHandler(c *gin.Context) {
	id := c.Param("id")

	record, err := api.fieldIndexer.Get(id)
	if err != nil {
		if errors.Is(err, interrors.ErrRecordNotFound) {
			SendError(c, http.StatusNotFound, ErrorCodeRecordNotFound, err.Error())
			return
		}
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
		return
	}

	entries, err := api.fieldIndexer.FieldEntries(id)
	if err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record, "field_entries": entries})
}

// RemoveRecordHandler removes a record; removing an absent id succeeds.
func (api *API) RemoveRecordHandler(c *gin.Context) {
	if err := api.fieldIndexer.Remove(c.Param("id")); err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record removed"})
}

// ClearRecordsHandler clears all records, optionally one resource type.
func (api *API) ClearRecordsHandler(c *gin.Context) {
	if err := api.fieldIndexer.Clear(c.Query("resource_type")); err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Records cleared"})
}

// StatsHandler reports field-boost store diagnostics.
func (api *API) StatsHandler(c *gin.Context) {
	stats, err := api.fieldIndexer.Stats()
	if err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SearchHandler runs a field-boosted search.
func (api *API) SearchHandler(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}

	cfg := config.DefaultFieldBoostConfig()
	if req.Config != nil {
		cfg = req.Config.ApplyTo(cfg)
	}
	if conflicts := cfg.Validate(); len(conflicts) > 0 {
		SendValidationError(c, conflicts)
		return
	}

	result, err := api.fieldSearcher.Search(req.Query, req.ResourceType, req.Limit, cfg)
	if err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchFieldHandler runs a single-field search.
func (api *API) SearchFieldHandler(c *gin.Context) {
	var req fieldSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}

	result, err := api.fieldSearcher.SearchField(req.Query, req.FieldName, req.Boost, req.ResourceType, req.Limit, req.Fuzzy, req.Fuzziness)
	if err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpsertPrefixRecordHandler indexes one record in the prefix store.
func (api *API) UpsertPrefixRecordHandler(c *gin.Context) {
	var rec model.RecordInput
	if err := c.ShouldBindJSON(&rec); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}
	if err := api.prefixIndexer.Index(rec.ID, rec.ResourceType, rec.Content); err != nil {
		sendIndexError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record '" + rec.ID + "' indexed"})
}

// BulkUpsertPrefixHandler indexes a batch atomically in the prefix store.
func (api *API) BulkUpsertPrefixHandler(c *gin.Context) {
	var records []model.RecordInput
	if err := c.ShouldBindJSON(&records); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}
	if err := api.prefixIndexer.BulkIndex(records); err != nil {
		sendIndexError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Indexed batch", "count": len(records)})
}

// GetPrefixRecordHandler returns one stored prefix record.
func (api *API) GetPrefixRecordHandler(c *gin.Context) {
	record, err := api.prefixIndexer.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, interrors.ErrRecordNotFound) {
			SendError(c, http.StatusNotFound, ErrorCodeRecordNotFound, err.Error())
			return
		}
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
		return
	}
	c.JSON(http.StatusOK, record)
}

// RemovePrefixRecordHandler removes a prefix record.
func (api *API) RemovePrefixRecordHandler(c *gin.Context) {
	if err := api.prefixIndexer.Remove(c.Param("id")); err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record removed"})
}

// ClearPrefixRecordsHandler clears the prefix store, optionally one type.
func (api *API) ClearPrefixRecordsHandler(c *gin.Context) {
	if err := api.prefixIndexer.Clear(c.Query("resource_type")); err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Records cleared"})
}

// PrefixStatsHandler reports prefix store diagnostics.
func (api *API) PrefixStatsHandler(c *gin.Context) {
	stats, err := api.prefixIndexer.Stats()
	if err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// PrefixSearchHandler runs a full prefix search.
func (api *API) PrefixSearchHandler(c *gin.Context) {
	var req prefixSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}

	cfg := config.DefaultPrefixMatchConfig()
	if req.Config != nil {
		cfg = req.Config.ApplyTo(cfg)
	}
	if conflicts := cfg.Validate(); len(conflicts) > 0 {
		SendValidationError(c, conflicts)
		return
	}

	result, err := api.prefixSearcher.Search(req.Query, req.ResourceType, req.Limit, cfg)
	if err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// WordPrefixSearchHandler runs the word-prefix convenience search.
func (api *API) WordPrefixSearchHandler(c *gin.Context) {
	var req prefixSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}
	result, err := api.prefixSearcher.SearchWordPrefix(req.Query, req.ResourceType, req.Limit)
	if err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExactPrefixSearchHandler runs the exact-prefix convenience search.
func (api *API) ExactPrefixSearchHandler(c *gin.Context) {
	var req prefixSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}
	result, err := api.prefixSearcher.SearchExactPrefix(req.Query, req.ResourceType, req.Limit)
	if err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// sendIndexError maps indexing failures to status codes: invalid records are
// the caller's fault, everything else is internal.
func sendIndexError(c *gin.Context, err error) {
	if errors.Is(err, interrors.ErrInvalidRecord) {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRecord, err.Error())
		return
	}
	SendError(c, http.StatusInternalServerError, ErrorCodeIndexingFailed, err.Error())
}
