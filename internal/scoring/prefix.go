package scoring

// MatchType identifies how a prefix search candidate matched. Declaration
// order doubles as the tie-break order when a record matches several ways
// with equal scores.
type MatchType string

const (
	MatchExactPrefix   MatchType = "exact_prefix"
	MatchWordPrefix    MatchType = "word_prefix"
	MatchPartialPrefix MatchType = "partial_prefix"
	MatchFuzzyPrefix   MatchType = "fuzzy_prefix"
)

// Rank returns the tie-break rank of the match type; lower wins.
func (t MatchType) Rank() int {
	switch t {
	case MatchExactPrefix:
		return 0
	case MatchWordPrefix:
		return 1
	case MatchPartialPrefix:
		return 2
	case MatchFuzzyPrefix:
		return 3
	}
	return 4
}

// longContentLength is the content length above which the length penalty
// kicks in, so bulk documents do not outrank short specific ones.
const longContentLength = 1000

// PrefixScore computes the shared score formula for all four prefix match
// tiers:
//
//	baseScore * (1 + positionBonus*0.3) * lengthBonus * contentLengthPenalty
//
// baseScore is 1.0*boostExact for exact, 0.9*boostWord for word, 0.7 for
// partial and 0.5 for fuzzy matches. positionBonus decays with the match
// offset, lengthBonus is capped at 1, and contents longer than 1000
// characters take a 0.8 penalty.
func PrefixScore(matchType MatchType, position, matchLength, queryLength, contentLength int, boostExact, boostWord float64) float64 {
	if queryLength <= 0 || contentLength <= 0 {
		return 0
	}

	var base float64
	switch matchType {
	case MatchExactPrefix:
		base = 1.0 * boostExact
	case MatchWordPrefix:
		base = 0.9 * boostWord
	case MatchPartialPrefix:
		base = 0.7
	case MatchFuzzyPrefix:
		base = 0.5
	default:
		return 0
	}

	positionBonus := 1 - float64(position)/float64(contentLength)
	if positionBonus < 0 {
		positionBonus = 0
	}

	lengthBonus := float64(matchLength) / float64(queryLength)
	if lengthBonus > 1 {
		lengthBonus = 1
	}

	penalty := 1.0
	if contentLength > longContentLength {
		penalty = 0.8
	}

	return base * (1 + positionBonus*0.3) * lengthBonus * penalty
}

// FuzzyPrefixSimilarity compares query and content character by character
// from the start, stopping at the first mismatch, and returns the fraction of
// query characters matched.
func FuzzyPrefixSimilarity(query, content string) float64 {
	q := []rune(query)
	c := []rune(content)
	if len(q) == 0 {
		return 0
	}

	matched := 0
	for i := 0; i < len(q) && i < len(c); i++ {
		if q[i] != c[i] {
			break
		}
		matched++
	}
	return float64(matched) / float64(len(q))
}

// FuzzyPrefixMatchLength returns the count of leading characters of query
// matched against content, used as the match length in the score formula.
func FuzzyPrefixMatchLength(query, content string) int {
	q := []rune(query)
	c := []rune(content)

	matched := 0
	for i := 0; i < len(q) && i < len(c); i++ {
		if q[i] != c[i] {
			break
		}
		matched++
	}
	return matched
}
