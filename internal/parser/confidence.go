package parser

// ConfidenceWeights control how resolved fields combine into the final
// confidence score. The field weights must sum to 1.0 so the score stays in
// [0,1]; the fallback penalty is subtracted when the title came from the
// whole-stem fallback.
type ConfidenceWeights struct {
	Year            float64 `toml:"year"`
	Quality         float64 `toml:"quality"`
	Source          float64 `toml:"source"`
	Title           float64 `toml:"title"`
	FallbackPenalty float64 `toml:"fallback_penalty"`
}

// DefaultConfidenceWeights returns the standard partition.
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{
		Year:            0.3,
		Quality:         0.2,
		Source:          0.2,
		Title:           0.3,
		FallbackPenalty: 0.2,
	}
}

// scoreConfidence combines binary field indicators into a normalized score.
// Every weight is non-negative, so resolving an additional field can never
// lower the score.
func scoreConfidence(w ConfidenceWeights, yearResolved, qualityResolved, sourceResolved, cleanTitle bool) float64 {
	score := 0.0
	if yearResolved {
		score += w.Year
	}
	if qualityResolved {
		score += w.Quality
	}
	if sourceResolved {
		score += w.Source
	}
	if cleanTitle {
		score += w.Title
	} else {
		score -= w.FallbackPenalty
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
