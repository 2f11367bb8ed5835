package config

import (
	"testing"

	"github.com/Nomadcxx/jellymatch/internal/matcher"
	"github.com/Nomadcxx/jellymatch/internal/parser"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Matcher.MinSimilarity != matcher.DefaultMinSimilarity {
		t.Errorf("expected min similarity %.2f, got %.2f", matcher.DefaultMinSimilarity, cfg.Matcher.MinSimilarity)
	}

	if cfg.Lookup.Workers <= 0 {
		t.Error("expected a positive default worker count")
	}

	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled by default")
	}

	if len(cfg.Libraries.Paths) != 0 {
		t.Errorf("expected empty library paths, got %d", len(cfg.Libraries.Paths))
	}
}

func TestAddLibraryPath(t *testing.T) {
	cfg := DefaultConfig()

	tmpDir := t.TempDir()

	if err := cfg.AddLibraryPath(tmpDir); err != nil {
		t.Fatalf("failed to add library path: %v", err)
	}

	if len(cfg.Libraries.Paths) != 1 {
		t.Errorf("expected 1 library path, got %d", len(cfg.Libraries.Paths))
	}

	if cfg.Libraries.Paths[0] != tmpDir {
		t.Errorf("expected path %s, got %s", tmpDir, cfg.Libraries.Paths[0])
	}

	// Try to add duplicate
	if err := cfg.AddLibraryPath(tmpDir); err == nil {
		t.Error("expected error when adding duplicate path")
	}

	// Try to add non-existent path
	if err := cfg.AddLibraryPath("/nonexistent/path"); err == nil {
		t.Error("expected error when adding non-existent path")
	}
}

func TestRemoveLibraryPath(t *testing.T) {
	cfg := DefaultConfig()
	tmpDir := t.TempDir()

	cfg.AddLibraryPath(tmpDir)
	if err := cfg.RemoveLibraryPath(tmpDir); err != nil {
		t.Fatalf("failed to remove library path: %v", err)
	}
	if len(cfg.Libraries.Paths) != 0 {
		t.Error("expected empty library paths after removal")
	}

	if err := cfg.RemoveLibraryPath("/nonexistent"); err == nil {
		t.Error("expected error when removing non-existent path")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()

	// Empty config should fail validation (no paths)
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation to fail with no paths configured")
	}

	tmpDir := t.TempDir()
	cfg.AddLibraryPath(tmpDir)

	if err := cfg.Validate(); err != nil {
		t.Errorf("validation failed with valid config: %v", err)
	}

	// Out-of-range similarity threshold
	cfg.Matcher.MinSimilarity = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation to fail with min_similarity above 1")
	}

	cfg.Matcher.MinSimilarity = 0.7
	cfg.Matcher.Weights.Title = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation to fail with a negative weight")
	}
}

func TestApplyDefaults(t *testing.T) {
	// A hand-edited config with missing sections still gets working values.
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Matcher.MinSimilarity != matcher.DefaultMinSimilarity {
		t.Errorf("MinSimilarity = %.2f, want default", cfg.Matcher.MinSimilarity)
	}
	if cfg.Parser.Weights == (parser.ConfidenceWeights{}) {
		t.Error("parser weights should be filled")
	}
	if cfg.Lookup.BaseURL == "" || cfg.Lookup.Workers <= 0 || cfg.Lookup.TimeoutSecs <= 0 {
		t.Errorf("lookup defaults not filled: %+v", cfg.Lookup)
	}
	if cfg.Cache.TTLDays <= 0 {
		t.Errorf("cache TTL not filled: %+v", cfg.Cache)
	}
}

func TestParserConfigBuild(t *testing.T) {
	p := ParserConfig{
		Weights: parser.DefaultConfidenceWeights(),
		Sources: []string{"MYSOURCE"},
	}
	built := p.Build()

	if len(built.Vocabulary.Source) != 1 || built.Vocabulary.Source[0] != "MYSOURCE" {
		t.Errorf("source list not overridden: %v", built.Vocabulary.Source)
	}
	// Untouched lists keep the defaults.
	if len(built.Vocabulary.Resolution) == 0 {
		t.Error("resolution list should fall back to defaults")
	}
}

func TestMatcherConfigBuild(t *testing.T) {
	m := MatcherConfig{
		Weights:       matcher.Weights{Title: 0.5, Year: 0.4, Popularity: 0.1},
		MinSimilarity: 0.8,
	}
	built := m.Build()

	if built.MinSimilarity != 0.8 {
		t.Errorf("MinSimilarity = %.2f, want 0.8", built.MinSimilarity)
	}
	if built.Weights.Title != 0.5 {
		t.Errorf("Weights.Title = %.2f, want 0.5", built.Weights.Title)
	}
}
