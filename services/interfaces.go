// Package services declares the interfaces the search subsystem exposes to
// its host application.
package services

import (
	"github.com/translatekit/searchkit/config"
	"github.com/translatekit/searchkit/model"
)

// FieldIndexer defines write operations on the field-boost store.
type FieldIndexer interface {
	Index(id, resourceType, content string, fields map[string]any) error
	BulkIndex(records []model.RecordInput) error
	Remove(id string) error
	Clear(resourceType string) error
	Stats() (model.FieldIndexStats, error)
	Get(id string) (model.IndexedRecord, error)
	FieldEntries(id string) ([]model.FieldEntry, error)
}

// FieldSearcher defines query operations against the field-boost store.
type FieldSearcher interface {
	Search(query, resourceType string, limit int, cfg config.FieldBoostConfig) (model.SearchResult, error)
	SearchField(query, fieldName string, boost float64, resourceType string, limit int, fuzzy bool, fuzziness float64) (model.SearchResult, error)
}

// PrefixIndexer defines write operations on the prefix-match store.
type PrefixIndexer interface {
	Index(id, resourceType, content string) error
	BulkIndex(records []model.RecordInput) error
	Remove(id string) error
	Clear(resourceType string) error
	Stats() (model.PrefixIndexStats, error)
	Get(id string) (model.PrefixRecord, error)
}

// PrefixSearcher defines query operations against the prefix-match store.
type PrefixSearcher interface {
	Search(query, resourceType string, limit int, cfg config.PrefixMatchConfig) (model.SearchResult, error)
	SearchWordPrefix(query, resourceType string, limit int) (model.SearchResult, error)
	SearchExactPrefix(query, resourceType string, limit int) (model.SearchResult, error)
}
