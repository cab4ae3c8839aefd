// Package model defines the records stored by the two search indexes and the
// result shapes returned by the search services.
package model

import (
	"fmt"
	"strconv"
)

// RecordInput is the flat record a caller hands to an index store. Fields is
// optional and only consumed by the field-boost store; the prefix store
// ignores it.
type RecordInput struct {
	ID           string         `json:"id"`
	ResourceType string         `json:"resource_type"`
	Content      string         `json:"content"`
	Fields       map[string]any `json:"fields,omitempty"`
}

// IndexedRecord is a row of the field-boost primary table. All derived columns
// (NormalizedContent, FieldNames, lengths) are owned by the store and
// recomputed on every write.
type IndexedRecord struct {
	ID                string         `json:"id"`
	ResourceType      string         `json:"resource_type"`
	Content           string         `json:"content"`
	NormalizedContent string         `json:"normalized_content"`
	Fields            map[string]any `json:"fields"`
	FieldNames        string         `json:"field_names"`
	ContentLength     int            `json:"content_length"`
	FieldCount        int            `json:"field_count"`
}

// FieldEntry is one row of the field-specific side table: one entry per
// non-null field per record, keyed by (ID, FieldName).
type FieldEntry struct {
	ID              string `json:"id"`
	ResourceType    string `json:"resource_type"`
	FieldName       string `json:"field_name"`
	FieldValue      string `json:"field_value"`
	NormalizedValue string `json:"normalized_value"`
	Position        int    `json:"position"`
	Length          int    `json:"length"`
}

// WordPosition describes one token occurrence within a prefix record's
// content. Duplicate words at different offsets are each recorded.
type WordPosition struct {
	Word     string `json:"word"`
	Position int    `json:"position"`
	Length   int    `json:"length"`
}

// PrefixRecord is a row of the prefix-match primary table.
type PrefixRecord struct {
	ID                string         `json:"id"`
	ResourceType      string         `json:"resource_type"`
	Content           string         `json:"content"`
	NormalizedContent string         `json:"normalized_content"`
	Words             string         `json:"words"`
	WordPositions     []WordPosition `json:"word_positions"`
	ContentLength     int            `json:"content_length"`
	WordCount         int            `json:"word_count"`
}

// SearchHit is a single ranked result. MatchedFields is populated by
// field-boost searches; MatchType and Position by prefix searches.
type SearchHit struct {
	ID            string   `json:"id"`
	ResourceType  string   `json:"resource_type"`
	Content       string   `json:"content"`
	Score         float64  `json:"score"`
	MatchedFields []string `json:"matched_fields,omitempty"`
	MatchType     string   `json:"match_type,omitempty"`
	Position      int      `json:"position"`
}

// SearchResult is the ranked, truncated hit list for one query.
type SearchResult struct {
	Hits    []SearchHit `json:"hits"`
	Total   int         `json:"total"`
	Took    int64       `json:"took"`     // milliseconds
	QueryID string      `json:"query_id"` // unique UUID for this query
}

// FieldIndexStats is the diagnostic read for the field-boost store.
type FieldIndexStats struct {
	TotalRecords     int                 `json:"total_records"`
	RecordsByType    map[string]int      `json:"records_by_type"`
	FieldNamesByType map[string][]string `json:"field_names_by_type"`
	AvgContentLength float64             `json:"avg_content_length"`
	AvgFieldCount    float64             `json:"avg_field_count"`
	SizeBytes        int64               `json:"size_bytes"`
}

// FieldValueString renders a field's scalar value in its string form, the
// shape stored in field_specific_index and compared against queries.
func FieldValueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// PrefixIndexStats is the diagnostic read for the prefix-match store.
type PrefixIndexStats struct {
	TotalRecords     int            `json:"total_records"`
	RecordsByType    map[string]int `json:"records_by_type"`
	AvgContentLength float64        `json:"avg_content_length"`
	AvgWordCount     float64        `json:"avg_word_count"`
	SizeBytes        int64          `json:"size_bytes"`
}
