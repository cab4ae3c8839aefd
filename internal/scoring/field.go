// Package scoring implements the relevance formulas as pure, side-effect-free
// functions. They may be called in any row order and re-invoked freely, so
// they hold no state and perform no I/O.
package scoring

import (
	"strings"

	"github.com/translatekit/searchkit/config"
	"github.com/translatekit/searchkit/internal/lexutil"
)

// FieldScore computes the raw (un-boosted) score of a query against a single
// field value. Tiers are checked in priority order and the first match wins:
//
//	exact match          1.0
//	substring            0.8 * (1 + positionBonus*0.3) * lengthBonus
//	prefix               0.9 * lengthBonus
//	no match             0
//
// positionBonus rewards left-anchored matches, lengthBonus rewards queries
// covering more of the field. A prefix is also a substring, so the substring
// tier shadows the prefix tier; the ordering is kept as-is to preserve the
// established ranking behavior.
func FieldScore(query, value string, caseSensitive bool) float64 {
	q, v := query, value
	if !caseSensitive {
		q = strings.ToLower(q)
		v = strings.ToLower(v)
	}
	if q == "" || v == "" {
		return 0
	}

	if v == q {
		return 1.0
	}

	lengthBonus := float64(len(q)) / float64(len(v))

	if idx := strings.Index(v, q); idx >= 0 {
		positionBonus := 1 - float64(idx)/float64(len(v))
		if positionBonus < 0 {
			positionBonus = 0
		}
		return 0.8 * (1 + positionBonus*0.3) * lengthBonus
	}

	if strings.HasPrefix(v, q) {
		return 0.9 * lengthBonus
	}

	return 0
}

// CombineFieldScores folds per-field raw scores into one record score. Each
// raw score is multiplied by its field boost (1.0 when absent). Under OR the
// boosted scores sum; under AND the combined score is the minimum boosted
// score across matched fields; unmatched fields do not zero the record.
// normalize turns an OR sum into an average over matched fields; AND scores
// are never normalized. The result never goes below 0.
func CombineFieldScores(rawScores map[string]float64, boosts map[string]float64, mode config.CombineMode, normalize bool) float64 {
	combined := 0.0
	matched := 0

	for name, raw := range rawScores {
		if raw <= 0 {
			continue
		}
		boost := 1.0
		if b, ok := boosts[name]; ok {
			boost = b
		}
		boosted := raw * boost

		matched++
		if mode == config.CombineAND {
			if matched == 1 || boosted < combined {
				combined = boosted
			}
		} else {
			combined += boosted
		}
	}

	if matched == 0 {
		return 0
	}
	if mode != config.CombineAND && normalize {
		combined /= float64(matched)
	}
	if combined < 0 {
		return 0
	}
	return combined
}

// FuzzyFieldMatch returns the Levenshtein similarity between query and value
// when it clears the fuzziness floor, and 0 otherwise. Similarity is
// 1 - distance/max(len(query), len(value)).
func FuzzyFieldMatch(query, value string, fuzziness float64) float64 {
	if query == "" || value == "" {
		return 0
	}
	maxLen := len([]rune(query))
	if l := len([]rune(value)); l > maxLen {
		maxLen = l
	}
	similarity := 1 - float64(lexutil.LevenshteinDistance(query, value))/float64(maxLen)
	if similarity < fuzziness {
		return 0
	}
	return similarity
}
