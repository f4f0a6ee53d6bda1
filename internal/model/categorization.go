package model

// MatchSource identifies which tier of the categorization cascade produced a result.
type MatchSource string

// Match source constants, in cascade priority order.
const (
	SourceUserPatternExact MatchSource = "user_pattern_exact"
	SourceUserPatternFuzzy MatchSource = "user_pattern_fuzzy"
	SourceMCC              MatchSource = "mcc"
	SourceMerchantRegex    MatchSource = "merchant_regex"
	SourceHistoryFuzzy     MatchSource = "history_fuzzy"
	SourceNone             MatchSource = "none"
)

// ConfidenceTier is the coarse review bucket derived from the confidence score.
type ConfidenceTier string

// Confidence tier constants.
const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// FallbackCategory is assigned when no tier matches. A row never leaves the
// engine without a category.
const FallbackCategory = "Other"

// CategorizationResult is the engine's suggestion for one RawRow. It is
// recomputed on every preview and never cached across requests.
type CategorizationResult struct {
	Category string
	Tier     ConfidenceTier
	Source   MatchSource
	Score    float64 // 0.0-1.0
}

// Fallback returns the result used when no cascade tier matched.
func Fallback() CategorizationResult {
	return CategorizationResult{
		Category: FallbackCategory,
		Tier:     TierLow,
		Source:   SourceNone,
		Score:    0,
	}
}
