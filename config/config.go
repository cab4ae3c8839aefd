// Package config provides the per-call configuration objects for the two
// search services. Defaults are immutable values obtained from the Default*
// constructors; callers copy and mutate their own value, or merge request
// overrides with the *Overrides types. No shared mutable config state exists.
package config

// CombineMode selects how per-field boosted scores are combined into one
// record score.
type CombineMode string

const (
	// CombineOR sums boosted scores across all matched fields.
	CombineOR CombineMode = "OR"
	// CombineAND takes the minimum boosted score across matched fields.
	// Unmatched fields are ignored rather than failing the record.
	CombineAND CombineMode = "AND"
)

// DefaultMaxResults is the hard cap applied to every search regardless of the
// requested limit.
const DefaultMaxResults = 100

// FieldBoostConfig controls field-boosted search.
type FieldBoostConfig struct {
	FieldBoosts        map[string]float64 `json:"field_boosts"`        // per-field score multiplier, 1.0 when absent
	CombineWith        CombineMode        `json:"combine_with"`        // OR (sum) or AND (min of matched)
	NormalizeScores    bool               `json:"normalize_scores"`    // average OR-combined scores by match count
	MinScore           float64            `json:"min_score"`           // result floor
	MaxResults         int                `json:"max_results"`         // hard cap regardless of requested limit
	EnableHighlighting bool               `json:"enable_highlighting"` // wrap matches in <mark> markup
	CaseSensitive      bool               `json:"case_sensitive"`
	Fuzzy              bool               `json:"fuzzy"`     // enable the Levenshtein tier in field searches
	Fuzziness          float64            `json:"fuzziness"` // similarity floor for the fuzzy tier
}

// DefaultFieldBoostConfig returns the default field-boost configuration.
func DefaultFieldBoostConfig() FieldBoostConfig {
	return FieldBoostConfig{
		FieldBoosts:        map[string]float64{},
		CombineWith:        CombineOR,
		NormalizeScores:    true,
		MinScore:           0.1,
		MaxResults:         DefaultMaxResults,
		EnableHighlighting: true,
		CaseSensitive:      false,
		Fuzzy:              false,
		Fuzziness:          0.2,
	}
}

// Validate checks a field-boost configuration for basic consistency and
// returns a list of human-readable conflicts. An empty list means valid.
func (c FieldBoostConfig) Validate() []string {
	var conflicts []string
	if c.CombineWith != CombineOR && c.CombineWith != CombineAND {
		conflicts = append(conflicts, "combine_with must be 'OR' or 'AND'")
	}
	for name, boost := range c.FieldBoosts {
		if boost < 0 {
			conflicts = append(conflicts, "field boost for '"+name+"' cannot be negative")
		}
	}
	if c.MinScore < 0 {
		conflicts = append(conflicts, "min_score cannot be negative")
	}
	if c.MaxResults < 0 {
		conflicts = append(conflicts, "max_results cannot be negative")
	}
	if c.Fuzziness < 0 || c.Fuzziness > 1 {
		conflicts = append(conflicts, "fuzziness must be between 0 and 1")
	}
	return conflicts
}

// PrefixMatchConfig controls prefix search.
type PrefixMatchConfig struct {
	CaseSensitive      bool    `json:"case_sensitive"`
	WordBoundary       bool    `json:"word_boundary"`     // enables the word_prefix tier
	MinPrefixLength    int     `json:"min_prefix_length"` // queries shorter than this return nothing
	MaxResults         int     `json:"max_results"`
	EnableFuzzyPrefix  bool    `json:"enable_fuzzy_prefix"`
	FuzzyThreshold     float64 `json:"fuzzy_threshold"`    // similarity floor for the fuzzy tier
	BoostExactPrefix   float64 `json:"boost_exact_prefix"` // multiplier on the exact tier base score
	BoostWordPrefix    float64 `json:"boost_word_prefix"`  // multiplier on the word tier base score
	EnableHighlighting bool    `json:"enable_highlighting"`
}

// DefaultPrefixMatchConfig returns the default prefix-match configuration.
func DefaultPrefixMatchConfig() PrefixMatchConfig {
	return PrefixMatchConfig{
		CaseSensitive:      false,
		WordBoundary:       true,
		MinPrefixLength:    1,
		MaxResults:         DefaultMaxResults,
		EnableFuzzyPrefix:  true,
		FuzzyThreshold:     0.8,
		BoostExactPrefix:   2.0,
		BoostWordPrefix:    1.5,
		EnableHighlighting: true,
	}
}

// Validate checks a prefix-match configuration for basic consistency.
func (c PrefixMatchConfig) Validate() []string {
	var conflicts []string
	if c.MinPrefixLength < 0 {
		conflicts = append(conflicts, "min_prefix_length cannot be negative")
	}
	if c.MaxResults < 0 {
		conflicts = append(conflicts, "max_results cannot be negative")
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 1 {
		conflicts = append(conflicts, "fuzzy_threshold must be between 0 and 1")
	}
	if c.BoostExactPrefix < 0 {
		conflicts = append(conflicts, "boost_exact_prefix cannot be negative")
	}
	if c.BoostWordPrefix < 0 {
		conflicts = append(conflicts, "boost_word_prefix cannot be negative")
	}
	return conflicts
}

// FieldBoostOverrides carries optional per-request overrides. Nil fields keep
// the base value.
type FieldBoostOverrides struct {
	FieldBoosts        map[string]float64 `json:"field_boosts,omitempty"`
	CombineWith        *CombineMode       `json:"combine_with,omitempty"`
	NormalizeScores    *bool              `json:"normalize_scores,omitempty"`
	MinScore           *float64           `json:"min_score,omitempty"`
	MaxResults         *int               `json:"max_results,omitempty"`
	EnableHighlighting *bool              `json:"enable_highlighting,omitempty"`
	CaseSensitive      *bool              `json:"case_sensitive,omitempty"`
	Fuzzy              *bool              `json:"fuzzy,omitempty"`
	Fuzziness          *float64           `json:"fuzziness,omitempty"`
}

// ApplyTo merges the overrides onto base and returns the merged copy.
func (o FieldBoostOverrides) ApplyTo(base FieldBoostConfig) FieldBoostConfig {
	cfg := base
	if o.FieldBoosts != nil {
		cfg.FieldBoosts = o.FieldBoosts
	}
	if o.CombineWith != nil {
		cfg.CombineWith = *o.CombineWith
	}
	if o.NormalizeScores != nil {
		cfg.NormalizeScores = *o.NormalizeScores
	}
	if o.MinScore != nil {
		cfg.MinScore = *o.MinScore
	}
	if o.MaxResults != nil {
		cfg.MaxResults = *o.MaxResults
	}
	if o.EnableHighlighting != nil {
		cfg.EnableHighlighting = *o.EnableHighlighting
	}
	if o.CaseSensitive != nil {
		cfg.CaseSensitive = *o.CaseSensitive
	}
	if o.Fuzzy != nil {
		cfg.Fuzzy = *o.Fuzzy
	}
	if o.Fuzziness != nil {
		cfg.Fuzziness = *o.Fuzziness
	}
	return cfg
}

// PrefixMatchOverrides carries optional per-request overrides for prefix
// search. Nil fields keep the base value.
type PrefixMatchOverrides struct {
	CaseSensitive      *bool    `json:"case_sensitive,omitempty"`
	WordBoundary       *bool    `json:"word_boundary,omitempty"`
	MinPrefixLength    *int     `json:"min_prefix_length,omitempty"`
	MaxResults         *int     `json:"max_results,omitempty"`
	EnableFuzzyPrefix  *bool    `json:"enable_fuzzy_prefix,omitempty"`
	FuzzyThreshold     *float64 `json:"fuzzy_threshold,omitempty"`
	BoostExactPrefix   *float64 `json:"boost_exact_prefix,omitempty"`
	BoostWordPrefix    *float64 `json:"boost_word_prefix,omitempty"`
	EnableHighlighting *bool    `json:"enable_highlighting,omitempty"`
}

// ApplyTo merges the overrides onto base and returns the merged copy.
func (o PrefixMatchOverrides) ApplyTo(base PrefixMatchConfig) PrefixMatchConfig {
	cfg := base
	if o.CaseSensitive != nil {
		cfg.CaseSensitive = *o.CaseSensitive
	}
	if o.WordBoundary != nil {
		cfg.WordBoundary = *o.WordBoundary
	}
	if o.MinPrefixLength != nil {
		cfg.MinPrefixLength = *o.MinPrefixLength
	}
	if o.MaxResults != nil {
		cfg.MaxResults = *o.MaxResults
	}
	if o.EnableFuzzyPrefix != nil {
		cfg.EnableFuzzyPrefix = *o.EnableFuzzyPrefix
	}
	if o.FuzzyThreshold != nil {
		cfg.FuzzyThreshold = *o.FuzzyThreshold
	}
	if o.BoostExactPrefix != nil {
		cfg.BoostExactPrefix = *o.BoostExactPrefix
	}
	if o.BoostWordPrefix != nil {
		cfg.BoostWordPrefix = *o.BoostWordPrefix
	}
	if o.EnableHighlighting != nil {
		cfg.EnableHighlighting = *o.EnableHighlighting
	}
	return cfg
}
