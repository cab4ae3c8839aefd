// Package prefixindex implements the prefix-match index store: content plus
// extracted words and their positions, mirrored into a tokenized prefix index
// on every write.
package prefixindex

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/translatekit/searchkit/internal/errors"
	"github.com/translatekit/searchkit/internal/lexutil"
	"github.com/translatekit/searchkit/model"
	"github.com/translatekit/searchkit/services"
	"github.com/translatekit/searchkit/store"
)

// Service implements the indexing side of the prefix-match store.
// It fulfills the services.PrefixIndexer interface.
type Service struct {
	db *store.DB
}

var _ services.PrefixIndexer = (*Service)(nil)

// NewService creates a new prefix-match indexing Service.
func NewService(db *store.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Service{db: db}, nil
}

// Index upserts one record, deriving its word list and word positions. A
// second write with the same id fully replaces the prior record.
func (s *Service) Index(id, resourceType, content string) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		return indexRecordTx(tx, id, resourceType, content)
	})
}

// BulkIndex indexes a batch inside a single transaction; any failure rolls
// back the entire batch.
func (s *Service) BulkIndex(records []model.RecordInput) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		for i, rec := range records {
			if err := indexRecordTx(tx, rec.ID, rec.ResourceType, rec.Content); err != nil {
				return errors.NewBulkIndexError(i, rec.ID, err)
			}
		}
		return nil
	})
}

func indexRecordTx(tx *sql.Tx, id, resourceType, content string) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewInvalidRecordError(id, "id cannot be empty")
	}

	words := lexutil.ExtractWords(content)
	positions := lexutil.ExtractWordPositions(content)

	positionData, err := json.Marshal(positions)
	if err != nil {
		return errors.NewInvalidRecordError(id, "word positions are not serializable: "+err.Error())
	}

	now := time.Now().UnixMilli()
	_, err = tx.Exec(`
		INSERT INTO prefix_match_index
			(id, resource_type, content, normalized_content, words, word_positions, content_length, word_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			resource_type = excluded.resource_type,
			content = excluded.content,
			normalized_content = excluded.normalized_content,
			words = excluded.words,
			word_positions = excluded.word_positions,
			content_length = excluded.content_length,
			word_count = excluded.word_count,
			updated_at = excluded.updated_at`,
		id, resourceType, content, strings.ToLower(strings.TrimSpace(content)),
		strings.Join(words, " "), string(positionData), len(content), len(words), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert prefix record '%s': %w", id, err)
	}
	return nil
}

// Get returns the stored prefix record for id with its word positions decoded.
func (s *Service) Get(id string) (model.PrefixRecord, error) {
	var rec model.PrefixRecord
	var positionData string

	row := s.db.QueryRow(`
		SELECT id, resource_type, content, normalized_content, words, word_positions, content_length, word_count
		FROM prefix_match_index
		WHERE id = ?`, id)
	err := row.Scan(&rec.ID, &rec.ResourceType, &rec.Content, &rec.NormalizedContent,
		&rec.Words, &positionData, &rec.ContentLength, &rec.WordCount)
	if err == sql.ErrNoRows {
		return rec, fmt.Errorf("%w: '%s'", errors.ErrRecordNotFound, id)
	}
	if err != nil {
		return rec, fmt.Errorf("failed to read prefix record '%s': %w", id, err)
	}

	if err := json.Unmarshal([]byte(positionData), &rec.WordPositions); err != nil {
		return rec, fmt.Errorf("failed to decode word positions for '%s': %w", id, err)
	}
	return rec, nil
}

// Remove deletes a record; removing an absent id is a silent no-op.
func (s *Service) Remove(id string) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM prefix_match_index WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to remove prefix record '%s': %w", id, err)
		}
		return nil
	})
}

// Clear deletes all records, optionally scoped to one resource type when
// resourceType is non-empty.
func (s *Service) Clear(resourceType string) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		if resourceType == "" {
			if _, err := tx.Exec(`DELETE FROM prefix_match_index`); err != nil {
				return fmt.Errorf("failed to clear prefix index: %w", err)
			}
			return nil
		}
		if _, err := tx.Exec(`DELETE FROM prefix_match_index WHERE resource_type = ?`, resourceType); err != nil {
			return fmt.Errorf("failed to clear prefix index for '%s': %w", resourceType, err)
		}
		return nil
	})
}

// Stats returns diagnostic counts and averages for the prefix store.
func (s *Service) Stats() (model.PrefixIndexStats, error) {
	stats := model.PrefixIndexStats{RecordsByType: make(map[string]int)}

	row := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(AVG(content_length), 0),
		       COALESCE(AVG(word_count), 0),
		       COALESCE(SUM(content_length + LENGTH(words) + LENGTH(word_positions) + LENGTH(id) + LENGTH(resource_type)), 0)
		FROM prefix_match_index`)
	if err := row.Scan(&stats.TotalRecords, &stats.AvgContentLength, &stats.AvgWordCount, &stats.SizeBytes); err != nil {
		return stats, fmt.Errorf("failed to read prefix index stats: %w", err)
	}

	rows, err := s.db.Query(`SELECT resource_type, COUNT(*) FROM prefix_match_index GROUP BY resource_type`)
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

	return stats, nil
}
