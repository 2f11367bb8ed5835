package parser

import (
	"strconv"
	"strings"
)

// Movie-sequence numbers outside 1..20 are resolution or year digits, not
// series numbering.
const maxSeriesNumber = 20

// AnimeInfo captures anime and movie-series signals from a filename.
type AnimeInfo struct {
	IsAnime       bool
	IsMovieSeries bool
	MovieNumber   int // 1..20, 0 when absent
}

var animeTerms = []string{"anime", "ova", "oav", "special"}

// DetectAnime flags anime releases and extracts movie-series numbering.
// A filename is anime when an anime vocabulary term appears or any CJK
// script is present. The movie number is taken from a 1..20 integer directly
// following a "Movie" token, or from a standalone 1..20 token elsewhere;
// the range bound keeps resolution digits (1080, 2160) out.
func DetectAnime(ts TokenStream, title TitleCandidate) AnimeInfo {
	info := AnimeInfo{}

	for _, tok := range ts.Tokens {
		if matchesTerm(tok.Text, animeTerms) {
			info.IsAnime = true
			break
		}
	}
	if title.HasChinese || title.HasJapanese || title.HasKorean {
		info.IsAnime = true
	}

	info.MovieNumber = findMovieNumber(ts)
	info.IsMovieSeries = info.MovieNumber > 0

	return info
}

func findMovieNumber(ts TokenStream) int {
	// Numbers following an explicit "Movie" token win.
	for i, tok := range ts.Tokens {
		if !strings.EqualFold(tok.Text, "movie") {
			continue
		}
		if i+1 < len(ts.Tokens) {
			if n, ok := seriesNumber(ts.Tokens[i+1].Text); ok {
				return n
			}
		}
	}

	// Otherwise the first standalone small number past the leading token.
	// The leading token is skipped so numeric titles ("1917") survive.
	for i, tok := range ts.Tokens {
		if i == 0 {
			continue
		}
		if n, ok := seriesNumber(tok.Text); ok {
			return n
		}
	}
	return 0
}

func seriesNumber(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > maxSeriesNumber {
		return 0, false
	}
	return n, true
}
