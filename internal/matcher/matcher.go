// Package matcher ranks external catalog candidates against a locally parsed
// (title, year) query using weighted similarity. Scoring is pure: behavior
// is fully determined by the query, the candidate list and the injected
// weights, so it can be verified independently of the orchestration.
package matcher

import (
	"strconv"
	"strings"
	"unicode"
)

// CandidateRecord is one catalog search result.
type CandidateRecord struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title,omitempty"`
	ReleaseDate   string   `json:"release_date,omitempty"` // Free-form, year = first 4 chars
	Popularity    *float64 `json:"popularity,omitempty"`
}

// MatchResult pairs the winning candidate with its composite score. It is
// only produced when the score clears the configured minimum similarity.
type MatchResult struct {
	Candidate CandidateRecord `json:"candidate"`
	Score     float64         `json:"score"`
}

// Weights combine the three similarity signals. They should sum to 1.0.
type Weights struct {
	Title      float64 `toml:"title"`
	Year       float64 `toml:"year"`
	Popularity float64 `toml:"popularity"`
}

// Config holds the injected matcher configuration.
type Config struct {
	Weights       Weights
	MinSimilarity float64
}

// DefaultMinSimilarity is the score below which no match is reported.
const DefaultMinSimilarity = 0.7

// DefaultWeights returns the standard signal weights.
func DefaultWeights() Weights {
	return Weights{Title: 0.6, Year: 0.3, Popularity: 0.1}
}

// DefaultConfig returns the standard weights and threshold.
func DefaultConfig() Config {
	return Config{
		Weights:       DefaultWeights(),
		MinSimilarity: DefaultMinSimilarity,
	}
}

// FindBestMatch scores every candidate and returns the best one, or nil when
// no candidate clears cfg.MinSimilarity. Candidates are evaluated in input
// order and ties keep the first seen, so selection is stable.
func FindBestMatch(title string, year int, candidates []CandidateRecord, cfg Config) *MatchResult {
	var best *MatchResult
	for _, cand := range candidates {
		score := compositeScore(title, year, cand, cfg.Weights)
		if best == nil || score > best.Score {
			best = &MatchResult{Candidate: cand, Score: score}
		}
	}
	if best == nil || best.Score < cfg.MinSimilarity {
		return nil
	}
	return best
}

func compositeScore(title string, year int, cand CandidateRecord, w Weights) float64 {
	ts := TitleSimilarity(title, cand.Title)
	if cand.OriginalTitle != "" {
		if alt := TitleSimilarity(title, cand.OriginalTitle); alt > ts {
			ts = alt
		}
	}
	return ts*w.Title + YearSimilarity(year, cand.ReleaseDate)*w.Year + PopularitySimilarity(cand.Popularity)*w.Popularity
}

// TitleSimilarity computes the word-overlap ratio between two normalized
// titles. Exact normalized equality short-circuits to 1.0.
func TitleSimilarity(a, b string) float64 {
	na, nb := NormalizeTitle(a), NormalizeTitle(b)
	if na == nb {
		if na == "" {
			return 0
		}
		return 1.0
	}

	wa, wb := strings.Fields(na), strings.Fields(nb)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(wb))
	for _, w := range wb {
		set[w] = true
	}
	overlap := 0
	for _, w := range wa {
		if set[w] {
			overlap++
		}
	}

	max := len(wa)
	if len(wb) > max {
		max = len(wb)
	}
	return float64(overlap) / float64(max)
}

// YearSimilarity maps the distance between the query year and the year
// encoded in a release-date string onto a stepped scale. Either side being
// unknown is neutral (0.5) rather than a penalty.
func YearSimilarity(year int, releaseDate string) float64 {
	candYear := YearFromReleaseDate(releaseDate)
	if year == 0 || candYear == 0 {
		return 0.5
	}

	diff := year - candYear
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 1.0
	case diff == 1:
		return 0.9
	case diff == 2:
		return 0.7
	case diff <= 5:
		return 0.5
	default:
		return 0.0
	}
}

// YearFromReleaseDate extracts the year from a free-form date string
// ("2008-05-01", "2008"). Returns 0 when absent or malformed.
func YearFromReleaseDate(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}

// PopularitySimilarity maps catalog popularity onto a stepped scale.
// Unknown popularity is neutral.
func PopularitySimilarity(popularity *float64) float64 {
	if popularity == nil {
		return 0.5
	}
	p := *popularity
	switch {
	case p > 100:
		return 1.0
	case p > 50:
		return 0.8
	case p > 20:
		return 0.6
	case p > 10:
		return 0.4
	default:
		return 0.2
	}
}

// NormalizeTitle lowercases, strips everything that is not a letter, digit
// or space, and collapses runs of whitespace. CJK characters count as
// letters and are retained.
func NormalizeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '.' || r == '_' || r == '-':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
