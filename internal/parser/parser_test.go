package parser

import (
	"math"
	"reflect"
	"testing"
)

func TestParseBasic(t *testing.T) {
	p := New(DefaultConfig())

	parsed := p.Parse("The.Matrix.1999.1080p.BluRay.mkv")
	if parsed.Title != "The Matrix" {
		t.Errorf("Title = %q, want %q", parsed.Title, "The Matrix")
	}
	if parsed.Year != 1999 {
		t.Errorf("Year = %d, want 1999", parsed.Year)
	}
	if parsed.Quality != "1080p" {
		t.Errorf("Quality = %q, want 1080p", parsed.Quality)
	}
	if parsed.Source != "BluRay" {
		t.Errorf("Source = %q, want BluRay", parsed.Source)
	}
	if math.Abs(parsed.Confidence-1.0) > 1e-9 {
		t.Errorf("Confidence = %f, want 1.0", parsed.Confidence)
	}
}

func TestParsePunctuationTitle(t *testing.T) {
	p := New(DefaultConfig())

	parsed := p.Parse("I, Robot.mkv")
	if parsed.Title != "I, Robot" {
		t.Errorf("Title = %q, want %q", parsed.Title, "I, Robot")
	}
	if parsed.Year != 0 {
		t.Errorf("Year = %d, want 0", parsed.Year)
	}
	if !parsed.UsedFallback {
		t.Error("expected fallback title")
	}
}

func TestParseBilingualRelease(t *testing.T) {
	p := New(DefaultConfig())

	parsed := p.Parse("钢铁侠.Iron.Man.2008.BluRay.2160p.x265.10bit.HDR.4Audio.mUHD-FRDS.mkv")
	if parsed.Title != "Iron Man" {
		t.Errorf("Title = %q, want %q", parsed.Title, "Iron Man")
	}
	if parsed.OriginalTitle != "钢铁侠" {
		t.Errorf("OriginalTitle = %q, want %q", parsed.OriginalTitle, "钢铁侠")
	}
	if parsed.Year != 2008 {
		t.Errorf("Year = %d, want 2008", parsed.Year)
	}
	if parsed.Quality != "2160p" {
		t.Errorf("Quality = %q, want 2160p", parsed.Quality)
	}
	if parsed.Source != "BluRay" {
		t.Errorf("Source = %q, want BluRay", parsed.Source)
	}
	if parsed.Codec != "x265" {
		t.Errorf("Codec = %q, want x265", parsed.Codec)
	}
	if parsed.Audio != "4Audio" {
		t.Errorf("Audio = %q, want 4Audio", parsed.Audio)
	}
	if parsed.ReleaseGroup != "FRDS" {
		t.Errorf("ReleaseGroup = %q, want FRDS", parsed.ReleaseGroup)
	}
	if !parsed.IsBilingual || !parsed.HasChinese {
		t.Error("expected bilingual Chinese flags")
	}
}

func TestParseDeterministic(t *testing.T) {
	p := New(DefaultConfig())
	inputs := []string{
		"The.Matrix.1999.1080p.BluRay.mkv",
		"I, Robot.mkv",
		"钢铁侠.Iron.Man.2008.BluRay.2160p.x265.mUHD-FRDS.mkv",
		"[SubsPlease] Show Name - 01 (1080p).mkv",
	}

	for _, input := range inputs {
		a := p.Parse(input)
		b := p.Parse(input)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Parse(%q) is not deterministic:\n%+v\n%+v", input, a, b)
		}
	}
}

func TestParseConfidenceBounds(t *testing.T) {
	p := New(DefaultConfig())
	inputs := []string{
		"The.Matrix.1999.1080p.BluRay.mkv",
		"garbage",
		"",
		"....",
		"1080p.mkv",
		"Movie.Name.Without.Anything.mkv",
	}

	for _, input := range inputs {
		parsed := p.Parse(input)
		if parsed.Confidence < 0 || parsed.Confidence > 1 {
			t.Errorf("Parse(%q).Confidence = %f, out of [0,1]", input, parsed.Confidence)
		}
		if parsed.Title == "" {
			t.Errorf("Parse(%q).Title is empty", input)
		}
	}
}

func TestParseConfidenceMonotonic(t *testing.T) {
	p := New(DefaultConfig())

	// Each added field should never lower confidence.
	chain := []string{
		"Movie.Name.mkv",
		"Movie.Name.1080p.mkv",
		"Movie.Name.1080p.BluRay.mkv",
		"Movie.Name.2020.1080p.BluRay.mkv",
	}

	prev := -1.0
	for _, input := range chain {
		c := p.Parse(input).Confidence
		if c < prev {
			t.Errorf("Parse(%q).Confidence = %f, lower than previous %f", input, c, prev)
		}
		prev = c
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := New(DefaultConfig())

	parsed := p.Parse("")
	if parsed.Title != "unknown" {
		t.Errorf("Title = %q, want unknown", parsed.Title)
	}
	if !parsed.UsedFallback {
		t.Error("expected fallback for empty input")
	}
}

func TestParseCustomVocabulary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vocabulary.Source = []string{"MYSOURCE"}
	p := New(cfg)

	parsed := p.Parse("Movie.2020.MYSOURCE.mkv")
	if parsed.Source != "MYSOURCE" {
		t.Errorf("Source = %q, want MYSOURCE", parsed.Source)
	}

	// BluRay is gone from the overridden list.
	parsed = p.Parse("Movie.2020.BluRay.mkv")
	if parsed.Source != "" {
		t.Errorf("Source = %q, want empty with overridden vocabulary", parsed.Source)
	}
}

func TestStripVideoExt(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Movie.2020.mkv", "Movie.2020"},
		{"Movie.2020.MP4", "Movie.2020"},
		{"Movie.1984", "Movie.1984"},
		{"Movie", "Movie"},
		{"archive.tar", "archive.tar"},
	}

	for _, tt := range tests {
		if got := StripVideoExt(tt.input); got != tt.expected {
			t.Errorf("StripVideoExt(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"/library/Movie.2020.mkv", true},
		{"/library/Movie.2020.MP4", true},
		{"/library/notes.txt", false},
		{"/library/Movie.1984", false},
	}

	for _, tt := range tests {
		if got := IsVideoFile(tt.input); got != tt.expected {
			t.Errorf("IsVideoFile(%q) = %t, want %t", tt.input, got, tt.expected)
		}
	}
}
