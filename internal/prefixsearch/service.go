// Package prefixsearch implements prefix-match search over the prefix store.
// Four match tiers (exact prefix, word prefix, tokenized partial prefix, and
// fuzzy prefix) are detected independently, scored through one shared
// formula, and deduplicated by record with the best match winning.
package prefixsearch

import (
	"fmt"
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

// Service implements prefix search for the prefix-match store.
// It fulfills the services.PrefixSearcher interface.
type Service struct {
	db *store.DB
}

var _ services.PrefixSearcher = (*Service)(nil)

// NewService creates a new prefix search Service.
func NewService(db *store.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Service{db: db}, nil
}

// candidate is one record under consideration, with the flag for whether the
// tokenized prefix index matched it.
type candidate struct {
	id            string
	resourceType  string
	content       string
	contentLength int
	partial       bool
}

// match is the best-scoring way a candidate matched.
type match struct {
	candidate
	matchType   scoring.MatchType
	score       float64
	position    int
	matchLength int
}

// Search runs all enabled match tiers for query, keeps each record's best
// match, and returns the ranked results. Queries shorter than the configured
// minimum prefix length return an empty result, not an error.
func (s *Service) Search(query, resourceType string, limit int, cfg config.PrefixMatchConfig) (model.SearchResult, error) {
	startTime := time.Now()
	result := model.SearchResult{Hits: []model.SearchHit{}, QueryID: uuid.New().String()}

	if query == "" || len(query) < cfg.MinPrefixLength {
		result.Took = time.Since(startTime).Milliseconds()
		return result, nil
	}

	candidates, err := s.fetchCandidates(query, resourceType, cfg.EnableFuzzyPrefix)
	if err != nil {
		return result, err
	}

	q := query
	if !cfg.CaseSensitive {
		q = strings.ToLower(q)
	}

	var matches []match
	for _, cand := range candidates {
		if m, ok := bestMatch(cand, query, q, cfg); ok {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		if matches[i].position != matches[j].position {
			return matches[i].position < matches[j].position
		}
		return matches[i].contentLength < matches[j].contentLength
	})

	result.Total = len(matches)
	for _, m := range matches[:capResults(len(matches), limit, cfg.MaxResults)] {
		content := m.content
		if cfg.EnableHighlighting {
			content = lexutil.Highlight(content, m.position, m.matchLength)
		}
		result.Hits = append(result.Hits, model.SearchHit{
			ID:           m.id,
			ResourceType: m.resourceType,
			Content:      content,
			Score:        m.score,
			MatchType:    string(m.matchType),
			Position:     m.position,
		})
	}
	result.Took = time.Since(startTime).Milliseconds()
	return result, nil
}

// SearchWordPrefix is a convenience entry point favoring word-boundary
// matches: the fuzzy tier is disabled and word matches get a higher boost.
func (s *Service) SearchWordPrefix(query, resourceType string, limit int) (model.SearchResult, error) {
	cfg := config.DefaultPrefixMatchConfig()
	cfg.EnableFuzzyPrefix = false
	cfg.BoostWordPrefix = 2.0
	return s.Search(query, resourceType, limit, cfg)
}

// SearchExactPrefix returns only records whose content starts with the query.
// It skips scoring entirely: every hit scores 1.0, ordered by content length
// then lexically.
func (s *Service) SearchExactPrefix(query, resourceType string, limit int) (model.SearchResult, error) {
	startTime := time.Now()
	result := model.SearchResult{Hits: []model.SearchHit{}, QueryID: uuid.New().String()}

	if query == "" {
		result.Took = time.Since(startTime).Milliseconds()
		return result, nil
	}

	probe := store.EscapeLike(strings.ToLower(query)) + "%"
	rows, err := s.db.Query(`
		SELECT id, resource_type, content
		FROM prefix_match_index
		WHERE (? = '' OR resource_type = ?)
		  AND normalized_content LIKE ? ESCAPE '\'
		ORDER BY content_length ASC, content ASC`,
		resourceType, resourceType, probe)
	if err != nil {
		return result, fmt.Errorf("failed to fetch exact prefix matches: %w", err)
	}
	defer rows.Close()

	capped := capResults(config.DefaultMaxResults, limit, config.DefaultMaxResults)
	for rows.Next() {
		var id, rt, content string
		if err := rows.Scan(&id, &rt, &content); err != nil {
			return result, fmt.Errorf("failed to scan exact prefix match: %w", err)
		}
		result.Total++
		if len(result.Hits) < capped {
			result.Hits = append(result.Hits, model.SearchHit{
				ID:           id,
				ResourceType: rt,
				Content:      content,
				Score:        1.0,
				MatchType:    string(scoring.MatchExactPrefix),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("failed to read exact prefix matches: %w", err)
	}

	result.Took = time.Since(startTime).Milliseconds()
	return result, nil
}

// fetchCandidates unions the candidate sets of the enabled tiers. With fuzzy
// enabled every record of the resource type is a candidate; otherwise only
// records passing the prefix pre-filters or the tokenized prefix index are
// loaded. The partial flag records a tokenized-prefix-index hit either way.
func (s *Service) fetchCandidates(query, resourceType string, includeAll bool) ([]candidate, error) {
	lower := strings.ToLower(query)
	exactProbe := store.EscapeLike(lower) + "%"
	wordProbe := "% " + store.EscapeLike(lower) + "%"
	ftsQuery := store.FTSPrefixQuery(lower)

	baseSelect := `
		SELECT id, resource_type, content, content_length,
		       rowid IN (SELECT rowid FROM prefix_match_fts WHERE prefix_match_fts MATCH ?) AS partial
		FROM prefix_match_index
		WHERE (? = '' OR resource_type = ?)`

	args := []any{ftsQuery, resourceType, resourceType}
	if !includeAll {
		baseSelect += `
		  AND (normalized_content LIKE ? ESCAPE '\'
		       OR normalized_content LIKE ? ESCAPE '\'
		       OR rowid IN (SELECT rowid FROM prefix_match_fts WHERE prefix_match_fts MATCH ?))`
		args = append(args, exactProbe, wordProbe, ftsQuery)
	}

	rows, err := s.db.Query(baseSelect, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prefix candidates: %w", err)
	}
	defer rows.Close()

	var candidates []candidate
	for rows.Next() {
		var cand candidate
		if err := rows.Scan(&cand.id, &cand.resourceType, &cand.content, &cand.contentLength, &cand.partial); err != nil {
			return nil, fmt.Errorf("failed to scan prefix candidate: %w", err)
		}
		candidates = append(candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prefix candidates: %w", err)
	}
	return candidates, nil
}

// bestMatch evaluates every enabled tier against one candidate and returns
// the highest-scoring match; score ties resolve in tier declaration order
// (exact > word > partial > fuzzy).
func bestMatch(cand candidate, rawQuery, q string, cfg config.PrefixMatchConfig) (match, bool) {
	content := cand.content
	if !cfg.CaseSensitive {
		content = strings.ToLower(content)
	}
	queryLen := len(rawQuery)
	contentLen := len(cand.content)

	best := match{candidate: cand}

	consider := func(t scoring.MatchType, position, matchLength int, score float64) {
		if score <= 0 {
			return
		}
		if score > best.score || (score == best.score && t.Rank() < best.matchType.Rank()) {
			best.matchType = t
			best.score = score
			best.position = position
			best.matchLength = matchLength
		}
	}

	if strings.HasPrefix(content, q) {
		consider(scoring.MatchExactPrefix, 0,
			queryLen, scoring.PrefixScore(scoring.MatchExactPrefix, 0, queryLen, queryLen, contentLen, cfg.BoostExactPrefix, cfg.BoostWordPrefix))
	}

	if cfg.WordBoundary {
		if pos, ok := wordPrefixPosition(content, q); ok {
			consider(scoring.MatchWordPrefix, pos,
				queryLen, scoring.PrefixScore(scoring.MatchWordPrefix, pos, queryLen, queryLen, contentLen, cfg.BoostExactPrefix, cfg.BoostWordPrefix))
		}
	}

	if cand.partial {
		consider(scoring.MatchPartialPrefix, 0,
			queryLen, scoring.PrefixScore(scoring.MatchPartialPrefix, 0, queryLen, queryLen, contentLen, cfg.BoostExactPrefix, cfg.BoostWordPrefix))
	}

	if cfg.EnableFuzzyPrefix {
		if sim := scoring.FuzzyPrefixSimilarity(q, content); sim >= cfg.FuzzyThreshold && sim > 0 {
			matchLen := scoring.FuzzyPrefixMatchLength(q, content)
			consider(scoring.MatchFuzzyPrefix, 0,
				matchLen, scoring.PrefixScore(scoring.MatchFuzzyPrefix, 0, matchLen, queryLen, contentLen, cfg.BoostExactPrefix, cfg.BoostWordPrefix))
		}
	}

	if best.score <= 0 {
		return match{}, false
	}
	return best, true
}

// wordPrefixPosition locates the first whitespace-delimited word starting
// with q. A match on the very first word reports position 0; a later word
// reports the offset just past the preceding space.
func wordPrefixPosition(content, q string) (int, bool) {
	if strings.HasPrefix(content, q) {
		return 0, true
	}
	idx := strings.Index(content, " "+q)
	if idx < 0 {
		return 0, false
	}
	pos := idx + 1
	if !lexutil.IsWordBoundary(content, pos) {
		return 0, false
	}
	return pos, true
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
