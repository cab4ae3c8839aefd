// Package fieldsearch implements field-boosted relevance search over the
// field-boost store: a coarse candidate fetch from the store followed by an
// in-process scoring pass using the pure functions in internal/scoring.
package fieldsearch

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/translatekit/searchkit/config"
	"github.com/translatekit/searchkit/internal/lexutil"
	"github.com/translatekit/searchkit/internal/scoring"
	"github.com/translatekit/searchkit/model"
	"github.com/translatekit/searchkit/services"
	"github.com/translatekit/searchkit/store"
)

// Service implements field-boosted search for the field-boost store.
// It fulfills the services.FieldSearcher interface.
type Service struct {
	db *store.DB
}

var _ services.FieldSearcher = (*Service)(nil)

// NewService creates a new field-boost search Service.
func NewService(db *store.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Service{db: db}, nil
}

// candidateRecord is one row of the coarse candidate fetch before scoring.
type candidateRecord struct {
	id            string
	resourceType  string
	content       string
	fieldData     string
	contentLength int
}

// Search scores query against every candidate record's field map and returns
// the ranked hits. Non-fuzzy candidates come from a containment pre-filter on
// the field-specific side table; fuzzy searches scan the resource type.
// Scoring and combination run in-process.
func (s *Service) Search(query, resourceType string, limit int, cfg config.FieldBoostConfig) (model.SearchResult, error) {
	startTime := time.Now()
	result := model.SearchResult{Hits: []model.SearchHit{}, QueryID: uuid.New().String()}

	if strings.TrimSpace(query) == "" {
		result.Took = time.Since(startTime).Milliseconds()
		return result, nil
	}

	// The normalized columns are lowercased, so a lowercased containment
	// probe is a superset of every non-fuzzy tier for either case mode.
	// Fuzzy matches share no substring with the query, so fuzzy search
	// scores every record of the resource type.
	sqlQuery := `
		SELECT r.id, r.resource_type, r.content, r.field_data, r.content_length
		FROM field_boost_index r
		WHERE (? = '' OR r.resource_type = ?)`
	args := []any{resourceType, resourceType}
	if !cfg.Fuzzy {
		sqlQuery += `
		  AND EXISTS (
			SELECT 1 FROM field_specific_index f
			WHERE f.id = r.id AND f.normalized_value LIKE ? ESCAPE '\'
		  )`
		args = append(args, "%"+store.EscapeLike(strings.ToLower(query))+"%")
	}

	rows, err := s.db.Query(sqlQuery, args...)
	if err != nil {
		return result, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	defer rows.Close()

	type scoredHit struct {
		hit           model.SearchHit
		contentLength int
	}
	var scored []scoredHit

	for rows.Next() {
		var rec candidateRecord
		if err := rows.Scan(&rec.id, &rec.resourceType, &rec.content, &rec.fieldData, &rec.contentLength); err != nil {
			return result, fmt.Errorf("failed to scan candidate: %w", err)
		}

		fields := decodeFieldData(rec.id, rec.fieldData)
		if len(fields) == 0 {
			continue
		}

		rawScores := make(map[string]float64, len(fields))
		for name, value := range fields {
			if value == nil {
				continue
			}
			v := model.FieldValueString(value)
			raw := scoring.FieldScore(query, v, cfg.CaseSensitive)
			if raw == 0 && cfg.Fuzzy {
				q, fv := query, v
				if !cfg.CaseSensitive {
					q = strings.ToLower(q)
					fv = strings.ToLower(fv)
				}
				raw = scoring.FuzzyFieldMatch(q, fv, cfg.Fuzziness) * 0.5
			}
			if raw > 0 {
				rawScores[name] = raw
			}
		}

		combined := scoring.CombineFieldScores(rawScores, cfg.FieldBoosts, cfg.CombineWith, cfg.NormalizeScores)
		if combined <= 0 || combined < cfg.MinScore {
			continue
		}

		matchedFields := matchedFieldNames(query, fields, cfg.CaseSensitive)

		content := rec.content
		if cfg.EnableHighlighting && len(matchedFields) > 0 {
			content = lexutil.HighlightAll(content, query)
		}

		scored = append(scored, scoredHit{
			hit: model.SearchHit{
				ID:            rec.id,
				ResourceType:  rec.resourceType,
				Content:       content,
				Score:         combined,
				MatchedFields: matchedFields,
			},
			contentLength: rec.contentLength,
		})
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("failed to read candidates: %w", err)
	}

	// Ties go to the shorter, more specific record.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].hit.Score != scored[j].hit.Score {
			return scored[i].hit.Score > scored[j].hit.Score
		}
		return scored[i].contentLength < scored[j].contentLength
	})

	result.Total = len(scored)
	for _, sc := range scored[:capResults(len(scored), limit, cfg.MaxResults)] {
		result.Hits = append(result.Hits, sc.hit)
	}
	result.Took = time.Since(startTime).Milliseconds()
	return result, nil
}

// SearchField searches a single named field. The tiers (exact, prefix,
// substring, and optionally fuzzy) are evaluated independently and the
// highest applicable score wins per record. Highlighting is always applied.
func (s *Service) SearchField(query, fieldName string, boost float64, resourceType string, limit int, fuzzy bool, fuzziness float64) (model.SearchResult, error) {
	startTime := time.Now()
	result := model.SearchResult{Hits: []model.SearchHit{}, QueryID: uuid.New().String()}

	if strings.TrimSpace(query) == "" || fieldName == "" {
		result.Took = time.Since(startTime).Milliseconds()
		return result, nil
	}
	if boost <= 0 {
		boost = 1.0
	}

	rows, err := s.db.Query(`
		SELECT f.id, f.normalized_value, f.field_length, r.resource_type, r.content
		FROM field_specific_index f
		JOIN field_boost_index r ON r.id = f.id
		WHERE f.field_name = ? AND (? = '' OR f.resource_type = ?)`,
		fieldName, resourceType, resourceType)
	if err != nil {
		return result, fmt.Errorf("failed to fetch field entries: %w", err)
	}
	defer rows.Close()

	q := strings.ToLower(query)

	type scoredHit struct {
		hit         model.SearchHit
		fieldLength int
	}
	var scored []scoredHit

	for rows.Next() {
		var id, value, rt, content string
		var fieldLength int
		if err := rows.Scan(&id, &value, &fieldLength, &rt, &content); err != nil {
			return result, fmt.Errorf("failed to scan field entry: %w", err)
		}

		best := 0.0
		if value == q {
			best = 1.0
		}
		if strings.HasPrefix(value, q) && 0.9 > best {
			best = 0.9
		}
		if strings.Contains(value, q) && 0.7 > best {
			best = 0.7
		}
		if fuzzy {
			if sim := scoring.FuzzyFieldMatch(q, value, fuzziness); sim*0.5 > best {
				best = sim * 0.5
			}
		}

		score := best * boost
		if score <= 0 {
			continue
		}

		scored = append(scored, scoredHit{
			hit: model.SearchHit{
				ID:            id,
				ResourceType:  rt,
				Content:       lexutil.HighlightAll(content, query),
				Score:         score,
				MatchedFields: []string{fieldName},
			},
			fieldLength: fieldLength,
		})
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("failed to read field entries: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].hit.Score != scored[j].hit.Score {
			return scored[i].hit.Score > scored[j].hit.Score
		}
		return scored[i].fieldLength < scored[j].fieldLength
	})

	result.Total = len(scored)
	for _, sc := range scored[:capResults(len(scored), limit, config.DefaultMaxResults)] {
		result.Hits = append(result.Hits, sc.hit)
	}
	result.Took = time.Since(startTime).Milliseconds()
	return result, nil
}

// matchedFieldNames lists the fields that match the query by a simple
// exact/prefix/containment test. The list explains a hit; it does not affect
// ranking.
func matchedFieldNames(query string, fields map[string]any, caseSensitive bool) []string {
	q := query
	if !caseSensitive {
		q = strings.ToLower(q)
	}

	var names []string
	for name, value := range fields {
		if value == nil {
			continue
		}
		v := model.FieldValueString(value)
		if !caseSensitive {
			v = strings.ToLower(v)
		}
		if v == q || strings.HasPrefix(v, q) || strings.Contains(v, q) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// decodeFieldData unmarshals the serialized field map. A corrupt row logs a
// warning and contributes nothing rather than aborting the scoring pass.
func decodeFieldData(id, data string) map[string]any {
	if data == "" {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		log.Printf("Warning: record '%s' has malformed field_data, skipping: %v", id, err)
		return nil
	}
	return fields
}

// capResults applies the requested limit under the configured hard cap.
func capResults(total, limit, maxResults int) int {
	if maxResults <= 0 {
		maxResults = config.DefaultMaxResults
	}
	capped := maxResults
	if limit > 0 && limit < capped {
		capped = limit
	}
	if total < capped {
		return total
	}
	return capped
}
