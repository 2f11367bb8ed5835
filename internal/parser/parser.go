// Package parser turns noisy media release filenames into structured
// metadata. Parsing is pure and deterministic: the same filename and
// vocabulary always produce the same result. It never fails; malformed
// input degrades to a fallback title with minimum confidence.
package parser

import (
	"path/filepath"
	"strings"
)

// ParsedMedia is the structured result of parsing a single filename.
type ParsedMedia struct {
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title,omitempty"`
	Year          int    `json:"year,omitempty"`
	Quality       string `json:"quality,omitempty"`
	Source        string `json:"source,omitempty"`
	Codec         string `json:"codec,omitempty"`
	Audio         string `json:"audio,omitempty"`
	ReleaseGroup  string `json:"release_group,omitempty"`
	Language      string `json:"language,omitempty"`

	IsBilingual bool `json:"is_bilingual,omitempty"`
	HasChinese  bool `json:"has_chinese,omitempty"`
	HasJapanese bool `json:"has_japanese,omitempty"`
	HasKorean   bool `json:"has_korean,omitempty"`

	IsAnime       bool `json:"is_anime,omitempty"`
	IsMovieSeries bool `json:"is_movie_series,omitempty"`
	MovieNumber   int  `json:"movie_number,omitempty"`

	Confidence   float64 `json:"confidence"`
	UsedFallback bool    `json:"used_fallback,omitempty"`
	RawFilename  string  `json:"raw_filename"`
}

// Config holds the injected parser configuration.
type Config struct {
	Vocabulary Vocabulary
	Weights    ConfidenceWeights
}

// DefaultConfig returns the built-in vocabulary and weights.
func DefaultConfig() Config {
	return Config{
		Vocabulary: DefaultVocabulary(),
		Weights:    DefaultConfidenceWeights(),
	}
}

// Parser parses filenames against an immutable vocabulary. It is safe for
// concurrent use by any number of goroutines.
type Parser struct {
	cfg Config
}

// New creates a Parser. Empty vocabulary lists fall back to the defaults.
func New(cfg Config) *Parser {
	def := DefaultConfig()
	if len(cfg.Vocabulary.Resolution) == 0 {
		cfg.Vocabulary.Resolution = def.Vocabulary.Resolution
	}
	if len(cfg.Vocabulary.Source) == 0 {
		cfg.Vocabulary.Source = def.Vocabulary.Source
	}
	if len(cfg.Vocabulary.CodecAudio) == 0 {
		cfg.Vocabulary.CodecAudio = def.Vocabulary.CodecAudio
	}
	if len(cfg.Vocabulary.ReleaseGroup) == 0 {
		cfg.Vocabulary.ReleaseGroup = def.Vocabulary.ReleaseGroup
	}
	if len(cfg.Vocabulary.Language) == 0 {
		cfg.Vocabulary.Language = def.Vocabulary.Language
	}
	if cfg.Weights == (ConfidenceWeights{}) {
		cfg.Weights = def.Weights
	}
	return &Parser{cfg: cfg}
}

// Parse extracts structured metadata from a filename. The extension is
// stripped when it is a known video extension. Parse never fails and the
// returned title is never empty.
func (p *Parser) Parse(filename string) ParsedMedia {
	stem := StripVideoExt(filename)

	ts := Tokenize(stem)
	attrs := DetectTechnical(ts, p.cfg.Vocabulary)
	title := ResolveTitle(ts, attrs)
	anime := DetectAnime(ts, title)

	media := ParsedMedia{
		Title:         title.Primary,
		OriginalTitle: title.Original,
		Year:          title.Year,
		Quality:       attrs.Resolution,
		Source:        attrs.Source,
		Codec:         attrs.Codec,
		Audio:         attrs.Audio,
		ReleaseGroup:  attrs.ReleaseGroup,
		Language:      attrs.Language,
		IsBilingual:   title.IsBilingual,
		HasChinese:    title.HasChinese,
		HasJapanese:   title.HasJapanese,
		HasKorean:     title.HasKorean,
		IsAnime:       anime.IsAnime,
		IsMovieSeries: anime.IsMovieSeries,
		MovieNumber:   anime.MovieNumber,
		UsedFallback:  title.UsedFallback,
		RawFilename:   filename,
	}

	if media.Title == "" {
		// Degenerate input: empty stem after extension stripping.
		media.Title = "unknown"
		media.UsedFallback = true
	}

	media.Confidence = scoreConfidence(p.cfg.Weights,
		media.Year != 0,
		media.Quality != "",
		media.Source != "",
		!media.UsedFallback,
	)

	return media
}

var videoExts = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
	".flv": true, ".webm": true, ".m4v": true, ".mpg": true, ".mpeg": true,
	".m2ts": true, ".ts": true,
}

// StripVideoExt removes a known video extension from a filename. Unknown
// extensions are kept: a trailing ".1984" is a year, not an extension.
func StripVideoExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if videoExts[ext] {
		return strings.TrimSuffix(filename, filename[len(filename)-len(ext):])
	}
	return filename
}

// IsVideoFile reports whether the path has a known video extension.
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}
