package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Nomadcxx/jellymatch/internal/matcher"
	"github.com/Nomadcxx/jellymatch/internal/parser"
)

// Config holds all jellymatch configuration
type Config struct {
	Libraries LibraryConfig `toml:"libraries"`
	Parser    ParserConfig  `toml:"parser"`
	Matcher   MatcherConfig `toml:"matcher"`
	Lookup    LookupConfig  `toml:"lookup"`
	Cache     CacheConfig   `toml:"cache"`
}

// LibraryConfig defines media library paths
type LibraryConfig struct {
	Paths []string `toml:"paths"`
}

// ParserConfig holds filename parsing settings. Vocabulary lists left empty
// fall back to the built-in defaults.
type ParserConfig struct {
	Weights       parser.ConfidenceWeights `toml:"weights"`
	Resolutions   []string                 `toml:"resolutions"`
	Sources       []string                 `toml:"sources"`
	Codecs        []string                 `toml:"codecs"`
	ReleaseGroups []string                 `toml:"release_groups"`
	Languages     []string                 `toml:"languages"`
}

// MatcherConfig holds candidate scoring settings
type MatcherConfig struct {
	Weights       matcher.Weights `toml:"weights"`
	MinSimilarity float64         `toml:"min_similarity"`
}

// LookupConfig holds external catalog settings. An empty api_key disables
// remote lookups entirely.
type LookupConfig struct {
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Language    string  `toml:"language"`
	RateLimit   float64 `toml:"rate_limit"` // requests per second
	Workers     int     `toml:"workers"`
	TimeoutSecs int     `toml:"timeout_secs"`
}

// CacheConfig holds local result cache settings
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // empty means the default cache location
	TTLDays int    `toml:"ttl_days"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Libraries: LibraryConfig{
			Paths: []string{},
		},
		Parser: ParserConfig{
			Weights: parser.DefaultConfidenceWeights(),
		},
		Matcher: MatcherConfig{
			Weights:       matcher.DefaultWeights(),
			MinSimilarity: matcher.DefaultMinSimilarity,
		},
		Lookup: LookupConfig{
			BaseURL:     "https://api.themoviedb.org/3",
			Language:    "en-US",
			RateLimit:   4,
			Workers:     4,
			TimeoutSecs: 10,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTLDays: 7,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	jellymatchDir := filepath.Join(configDir, "jellymatch")
	configFile := filepath.Join(jellymatchDir, "config.toml")

	return configFile, nil
}

// CachePath returns the configured cache database path, or the default
// location under the user cache directory.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "jellymatch", "cache.db"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// Load reads the config file, creating it with defaults if it doesn't exist
func Load() (*Config, error) {
	configFile, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if err := EnsureConfigDir(); err != nil {
		return nil, err
	}

	// If config doesn't exist, create it with defaults
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(configFile, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills zero-valued settings so a hand-edited config with
// missing sections still behaves.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Parser.Weights == (parser.ConfidenceWeights{}) {
		c.Parser.Weights = def.Parser.Weights
	}
	if c.Matcher.Weights == (matcher.Weights{}) {
		c.Matcher.Weights = def.Matcher.Weights
	}
	if c.Matcher.MinSimilarity <= 0 {
		c.Matcher.MinSimilarity = def.Matcher.MinSimilarity
	}
	if c.Lookup.BaseURL == "" {
		c.Lookup.BaseURL = def.Lookup.BaseURL
	}
	if c.Lookup.Language == "" {
		c.Lookup.Language = def.Lookup.Language
	}
	if c.Lookup.RateLimit <= 0 {
		c.Lookup.RateLimit = def.Lookup.RateLimit
	}
	if c.Lookup.Workers <= 0 {
		c.Lookup.Workers = def.Lookup.Workers
	}
	if c.Lookup.TimeoutSecs <= 0 {
		c.Lookup.TimeoutSecs = def.Lookup.TimeoutSecs
	}
	if c.Cache.TTLDays <= 0 {
		c.Cache.TTLDays = def.Cache.TTLDays
	}
}

// Save writes the config to disk
func Save(cfg *Config) error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := EnsureConfigDir(); err != nil {
		return err
	}

	f, err := os.Create(configFile)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.Matcher.MinSimilarity < 0 || c.Matcher.MinSimilarity > 1 {
		return fmt.Errorf("min_similarity must be between 0 and 1, got %.2f", c.Matcher.MinSimilarity)
	}

	w := c.Matcher.Weights
	if w.Title < 0 || w.Year < 0 || w.Popularity < 0 {
		return fmt.Errorf("matcher weights must be non-negative")
	}

	if len(c.Libraries.Paths) == 0 {
		return fmt.Errorf("no library paths configured")
	}

	for _, path := range c.Libraries.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("library path %s: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("library path %s is not a directory", path)
		}
	}

	return nil
}

// ParserConfig.Build assembles a parser configuration, overlaying any
// vocabulary lists present in the config onto the defaults.
func (p ParserConfig) Build() parser.Config {
	cfg := parser.DefaultConfig()
	cfg.Weights = p.Weights
	if len(p.Resolutions) > 0 {
		cfg.Vocabulary.Resolution = p.Resolutions
	}
	if len(p.Sources) > 0 {
		cfg.Vocabulary.Source = p.Sources
	}
	if len(p.Codecs) > 0 {
		cfg.Vocabulary.CodecAudio = p.Codecs
	}
	if len(p.ReleaseGroups) > 0 {
		cfg.Vocabulary.ReleaseGroup = p.ReleaseGroups
	}
	if len(p.Languages) > 0 {
		cfg.Vocabulary.Language = p.Languages
	}
	return cfg
}

// Build assembles a matcher configuration.
func (m MatcherConfig) Build() matcher.Config {
	return matcher.Config{
		Weights:       m.Weights,
		MinSimilarity: m.MinSimilarity,
	}
}

// AddLibraryPath adds a library path
func (c *Config) AddLibraryPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	for _, existing := range c.Libraries.Paths {
		if existing == path {
			return fmt.Errorf("path already configured: %s", path)
		}
	}

	c.Libraries.Paths = append(c.Libraries.Paths, path)
	return nil
}

// RemoveLibraryPath removes a library path
func (c *Config) RemoveLibraryPath(path string) error {
	for i, existing := range c.Libraries.Paths {
		if existing == path {
			c.Libraries.Paths = append(c.Libraries.Paths[:i], c.Libraries.Paths[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("path not found: %s", path)
}
