package parser

import "testing"

func detectAnime(stem string) AnimeInfo {
	ts := Tokenize(stem)
	attrs := DetectTechnical(ts, DefaultVocabulary())
	return DetectAnime(ts, ResolveTitle(ts, attrs))
}

func TestDetectAnimeTerms(t *testing.T) {
	tests := []struct {
		input   string
		isAnime bool
	}{
		{"Show.Name.OVA.1080p", true},
		{"Show.Special.2005", true},
		{"Regular.Movie.2020.1080p", false},
	}

	for _, tt := range tests {
		info := detectAnime(tt.input)
		if info.IsAnime != tt.isAnime {
			t.Errorf("detectAnime(%q).IsAnime = %t, want %t", tt.input, info.IsAnime, tt.isAnime)
		}
	}
}

func TestDetectAnimeCJKScript(t *testing.T) {
	info := detectAnime("千と千尋の神隠し.2001.1080p")
	if !info.IsAnime {
		t.Error("CJK script should flag anime")
	}
}

func TestMovieSeriesNumber(t *testing.T) {
	tests := []struct {
		input  string
		number int
	}{
		{"Detective.Conan.Movie.3.1999", 3},
		{"Show.Name.Movie.12.1080p", 12},
		// Standalone small number past the lead token
		{"Show.Name.2.1080p", 2},
		// Years and resolutions never count
		{"Movie.2020.1080p", 0},
		// Numeric titles survive: the lead token is skipped
		{"1917.2019.1080p", 0},
		// Out-of-range numbers are ignored
		{"Show.Movie.21.1080p", 0},
	}

	for _, tt := range tests {
		info := detectAnime(tt.input)
		if info.MovieNumber != tt.number {
			t.Errorf("detectAnime(%q).MovieNumber = %d, want %d", tt.input, info.MovieNumber, tt.number)
		}
		if (tt.number > 0) != info.IsMovieSeries {
			t.Errorf("detectAnime(%q).IsMovieSeries = %t, want %t", tt.input, info.IsMovieSeries, tt.number > 0)
		}
	}
}
