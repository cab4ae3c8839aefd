// Package engine composes the two index stores and their searchers over one
// shared database connection.
package engine

import (
	"fmt"

	"github.com/translatekit/searchkit/internal/fieldindex"
	"github.com/translatekit/searchkit/internal/fieldsearch"
	"github.com/translatekit/searchkit/internal/prefixindex"
	"github.com/translatekit/searchkit/internal/prefixsearch"
	"github.com/translatekit/searchkit/store"
)

// Engine owns the shared connection and exposes the four services built on
// it. The two stores are independent; composing their results is the
// caller's responsibility.
type Engine struct {
	db *store.DB

	FieldIndex   *fieldindex.Service
	FieldSearch  *fieldsearch.Service
	PrefixIndex  *prefixindex.Service
	PrefixSearch *prefixsearch.Service
}

// New opens (or creates) the search database at path and wires all services.
// Use ":memory:" for an ephemeral in-process engine.
func New(path string) (*Engine, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}

	fieldIdx, err := fieldindex.NewService(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create field indexer: %w", err)
	}
	fieldSearch, err := fieldsearch.NewService(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create field searcher: %w", err)
	}
	prefixIdx, err := prefixindex.NewService(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create prefix indexer: %w", err)
	}
	prefixSearch, err := prefixsearch.NewService(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create prefix searcher: %w", err)
	}

	return &Engine{
		db:           db,
		FieldIndex:   fieldIdx,
		FieldSearch:  fieldSearch,
		PrefixIndex:  prefixIdx,
		PrefixSearch: prefixSearch,
	}, nil
}

// Close releases the shared connection.
func (e *Engine) Close() error {
	return e.db.Close()
}
