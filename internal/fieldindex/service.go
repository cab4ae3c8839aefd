// Package fieldindex implements the field-boost index store: denormalized
// records with per-field side rows, kept in sync with a full-text mirror on
// every write.
package fieldindex

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/translatekit/searchkit/internal/errors"
	"github.com/translatekit/searchkit/model"
	"github.com/translatekit/searchkit/services"
	"github.com/translatekit/searchkit/store"
)

// Service implements the indexing side of the field-boost store.
// It fulfills the services.FieldIndexer interface.
type Service struct {
	db *store.DB
}

var _ services.FieldIndexer = (*Service)(nil)

// NewService creates a new field-boost indexing Service.
func NewService(db *store.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Service{db: db}, nil
}

// Index upserts one record. A second write with the same id fully replaces
// the prior record and all of its field entries. Idempotent for identical
// input.
func (s *Service) Index(id, resourceType, content string, fields map[string]any) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		return indexRecordTx(tx, id, resourceType, content, fields)
	})
}

// BulkIndex indexes a batch of records inside a single transaction. On any
// failure the entire batch is rolled back and no partial state is visible.
func (s *Service) BulkIndex(records []model.RecordInput) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		for i, rec := range records {
			if err := indexRecordTx(tx, rec.ID, rec.ResourceType, rec.Content, rec.Fields); err != nil {
				return errors.NewBulkIndexError(i, rec.ID, err)
			}
		}
		return nil
	})
}

// indexRecordTx performs the upsert within the caller's transaction: primary
// row first, then a delete-and-reinsert of all field entries for the id. The
// full-text mirror follows via triggers.
func indexRecordTx(tx *sql.Tx, id, resourceType, content string, fields map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewInvalidRecordError(id, "id cannot be empty")
	}

	fieldData, err := json.Marshal(fields)
	if err != nil {
		return errors.NewInvalidRecordError(id, "fields are not serializable: "+err.Error())
	}
	if fields == nil {
		fieldData = []byte("{}")
	}

	// Sorted field names give every write of the same input identical
	// positions and an identical field_names column.
	names := make([]string, 0, len(fields))
	for name, value := range fields {
		if value == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	normalized := normalize(content)
	now := time.Now().UnixMilli()

	_, err = tx.Exec(`
		INSERT INTO field_boost_index
			(id, resource_type, content, normalized_content, field_data, field_names, content_length, field_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			resource_type = excluded.resource_type,
			content = excluded.content,
			normalized_content = excluded.normalized_content,
			field_data = excluded.field_data,
			field_names = excluded.field_names,
			content_length = excluded.content_length,
			field_count = excluded.field_count,
			updated_at = excluded.updated_at`,
		id, resourceType, content, normalized, string(fieldData), strings.Join(names, " "),
		len(content), len(names), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert record '%s': %w", id, err)
	}

	if _, err := tx.Exec(`DELETE FROM field_specific_index WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear field entries for '%s': %w", id, err)
	}

	for position, name := range names {
		value := model.FieldValueString(fields[name])
		_, err := tx.Exec(`
			INSERT INTO field_specific_index
				(id, resource_type, field_name, field_value, normalized_value, field_position, field_length)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, resourceType, name, value, normalize(value), position, len(value))
		if err != nil {
			return fmt.Errorf("failed to insert field entry '%s.%s': %w", id, name, err)
		}
	}

	return nil
}

// Get returns the stored record for id, including the derived columns the
// store computed at write time.
func (s *Service) Get(id string) (model.IndexedRecord, error) {
	var rec model.IndexedRecord
	var fieldData string

	row := s.db.QueryRow(`
		SELECT id, resource_type, content, normalized_content, field_data, field_names, content_length, field_count
		FROM field_boost_index
		WHERE id = ?`, id)
	err := row.Scan(&rec.ID, &rec.ResourceType, &rec.Content, &rec.NormalizedContent,
		&fieldData, &rec.FieldNames, &rec.ContentLength, &rec.FieldCount)
	if err == sql.ErrNoRows {
		return rec, fmt.Errorf("%w: '%s'", errors.ErrRecordNotFound, id)
	}
	if err != nil {
		return rec, fmt.Errorf("failed to read record '%s': %w", id, err)
	}

	if err := json.Unmarshal([]byte(fieldData), &rec.Fields); err != nil {
		return rec, fmt.Errorf("failed to decode fields for '%s': %w", id, err)
	}
	return rec, nil
}

// FieldEntries returns the field-specific side rows for id in position order.
// A missing or field-less record yields an empty slice.
func (s *Service) FieldEntries(id string) ([]model.FieldEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, resource_type, field_name, field_value, normalized_value, field_position, field_length
		FROM field_specific_index
		WHERE id = ?
		ORDER BY field_position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read field entries for '%s': %w", id, err)
	}
	defer rows.Close()

	entries := []model.FieldEntry{}
	for rows.Next() {
		var e model.FieldEntry
		if err := rows.Scan(&e.ID, &e.ResourceType, &e.FieldName, &e.FieldValue,
			&e.NormalizedValue, &e.Position, &e.Length); err != nil {
			return nil, fmt.Errorf("failed to scan field entry for '%s': %w", id, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read field entries for '%s': %w", id, err)
	}
	return entries, nil
}

// Remove deletes a record and all its field entries. Removing an absent id is
// a silent no-op.
func (s *Service) Remove(id string) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM field_boost_index WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to remove record '%s': %w", id, err)
		}
		if _, err := tx.Exec(`DELETE FROM field_specific_index WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to remove field entries for '%s': %w", id, err)
		}
		return nil
	})
}

// Clear deletes all records, optionally scoped to one resource type when
// resourceType is non-empty.
func (s *Service) Clear(resourceType string) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		if resourceType == "" {
			if _, err := tx.Exec(`DELETE FROM field_boost_index`); err != nil {
				return fmt.Errorf("failed to clear field-boost index: %w", err)
			}
			if _, err := tx.Exec(`DELETE FROM field_specific_index`); err != nil {
				return fmt.Errorf("failed to clear field-specific index: %w", err)
			}
			return nil
		}
		if _, err := tx.Exec(`DELETE FROM field_boost_index WHERE resource_type = ?`, resourceType); err != nil {
			return fmt.Errorf("failed to clear field-boost index for '%s': %w", resourceType, err)
		}
		if _, err := tx.Exec(`DELETE FROM field_specific_index WHERE resource_type = ?`, resourceType); err != nil {
			return fmt.Errorf("failed to clear field-specific index for '%s': %w", resourceType, err)
		}
		return nil
	})
}

// Stats returns diagnostic counts and averages. It reads the primary table
// plus one grouped aggregate per metric; nothing here scans field values.
func (s *Service) Stats() (model.FieldIndexStats, error) {
	stats := model.FieldIndexStats{
		RecordsByType:    make(map[string]int),
		FieldNamesByType: make(map[string][]string),
	}

	row := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(AVG(content_length), 0),
		       COALESCE(AVG(field_count), 0),
		       COALESCE(SUM(content_length + LENGTH(field_data) + LENGTH(field_names) + LENGTH(id) + LENGTH(resource_type)), 0)
		FROM field_boost_index`)
	if err := row.Scan(&stats.TotalRecords, &stats.AvgContentLength, &stats.AvgFieldCount, &stats.SizeBytes); err != nil {
		return stats, fmt.Errorf("failed to read index stats: %w", err)
	}

	rows, err := s.db.Query(`SELECT resource_type, COUNT(*) FROM field_boost_index GROUP BY resource_type`)
	if err != nil {
		return stats, fmt.Errorf("failed to read per-type counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rt string
		var count int
		if err := rows.Scan(&rt, &count); err != nil {
			return stats, fmt.Errorf("failed to scan per-type count: %w", err)
		}
		stats.RecordsByType[rt] = count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("failed to read per-type counts: %w", err)
	}

	nameRows, err := s.db.Query(`
		SELECT resource_type, field_name
		FROM field_specific_index
		GROUP BY resource_type, field_name
		ORDER BY resource_type, field_name`)
	if err != nil {
		return stats, fmt.Errorf("failed to read field names: %w", err)
	}
	defer nameRows.Close()
	for nameRows.Next() {
		var rt, name string
		if err := nameRows.Scan(&rt, &name); err != nil {
			return stats, fmt.Errorf("failed to scan field name: %w", err)
		}
		stats.FieldNamesByType[rt] = append(stats.FieldNamesByType[rt], name)
	}
	if err := nameRows.Err(); err != nil {
		return stats, fmt.Errorf("failed to read field names: %w", err)
	}

	return stats, nil
}

// normalize produces the lowercased, trimmed derivative stored next to every
// raw value. The store owns these columns; callers never write them.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
