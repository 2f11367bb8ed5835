package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/jellymatch/internal/cache"
	"github.com/Nomadcxx/jellymatch/internal/config"
	"github.com/Nomadcxx/jellymatch/internal/parser"
	"github.com/Nomadcxx/jellymatch/internal/pipeline"
	"github.com/Nomadcxx/jellymatch/internal/reporter"
	"github.com/Nomadcxx/jellymatch/internal/tmdb"
	"github.com/Nomadcxx/jellymatch/internal/ui"
)

var (
	cfgFile    string
	jsonOutput bool
	noLookup   bool
	noCache    bool
	workers    int

	// Version information (set via -ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

const exampleConfig = `[libraries]
paths = ["/path/to/your/movies"]

[lookup]
api_key = ""  # TMDB API key; leave empty for local-only parsing
`

var rootCmd = &cobra.Command{
	Use:   "jellymatch",
	Short: "Media filename parser and catalog matcher for Jellyfin/Plex",
	Long:  getLongDescription(),
}

var parseCmd = &cobra.Command{
	Use:   "parse <filename>...",
	Short: "Parse release filenames without any catalog lookup",
	Args:  cobra.MinimumNArgs(1),
	Run:   runParse,
}

var identifyCmd = &cobra.Command{
	Use:   "identify [path]...",
	Short: "Identify library files against the external catalog",
	Run:   runIdentify,
}

var viewCmd = &cobra.Command{
	Use:   "view [report-file]",
	Short: "View an identification report in the TUI",
	Args:  cobra.MaximumNArgs(1),
	Run:   runView,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration file location and contents",
	Run:   runConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jellymatch %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/jellymatch/config.toml)")
	parseCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit parse results as JSON")
	identifyCmd.Flags().BoolVar(&noLookup, "no-lookup", false, "skip the external catalog, local parsing only")
	identifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	identifyCmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent workers (default from config)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runParse(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	p := parser.New(cfg.Parser.Build())

	for _, filename := range args {
		parsed := p.Parse(filepath.Base(filename))

		if jsonOutput {
			payload, err := json.MarshalIndent(parsed, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(payload))
			continue
		}

		fmt.Printf("%s\n", filepath.Base(filename))
		fmt.Printf("  Title:      %s\n", parsed.Title)
		if parsed.OriginalTitle != "" && parsed.OriginalTitle != parsed.Title {
			fmt.Printf("  Original:   %s\n", parsed.OriginalTitle)
		}
		if parsed.Year != 0 {
			fmt.Printf("  Year:       %d\n", parsed.Year)
		}
		if parsed.Quality != "" {
			fmt.Printf("  Quality:    %s\n", parsed.Quality)
		}
		if parsed.Source != "" {
			fmt.Printf("  Source:     %s\n", parsed.Source)
		}
		if parsed.Codec != "" {
			fmt.Printf("  Codec:      %s\n", parsed.Codec)
		}
		if parsed.ReleaseGroup != "" {
			fmt.Printf("  Group:      %s\n", parsed.ReleaseGroup)
		}
		if parsed.IsAnime {
			fmt.Printf("  Anime:      yes\n")
		}
		fmt.Printf("  Confidence: %.2f\n\n", parsed.Confidence)
	}
}

func runIdentify(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.Libraries.Paths
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "No library paths configured and none given on the command line")
		os.Exit(1)
	}

	orch, store, err := buildOrchestrator(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	// Create context with cancellation support (Ctrl+C)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nCancelling identification...")
		cancel()
	}()

	parallelCfg := pipeline.ParallelConfig{Workers: cfg.Lookup.Workers}
	if workers > 0 {
		parallelCfg.Workers = workers
	}

	progressCh := make(chan pipeline.Progress, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progressCh {
			if p.Stage == "complete" {
				continue
			}
			fmt.Printf("\r[%3.0f%%] %d/%d  %s\033[K", p.Percentage, p.Current, p.Total, p.Message)
		}
	}()

	fmt.Println("Starting identification...")
	outcomes, err := orch.IdentifyAll(ctx, paths, parallelCfg, progressCh)
	close(progressCh)
	<-done
	fmt.Println()

	if err != nil {
		if err == context.Canceled {
			fmt.Fprintf(os.Stderr, "Identification cancelled by user\n")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Identification failed: %v\n", err)
		os.Exit(1)
	}

	report := reporter.Build(paths, outcomes, pipeline.DefaultPolicy())
	reportPath, err := reporter.Generate(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nIdentification complete! %d matched, %d unmatched, %d lookup failures\n",
		report.Matched, report.Unmatched, report.LookupFailures)
	fmt.Printf("Report saved to:\n  %s\n\n", reportPath)
	fmt.Println("View report with: jellymatch view")
}

func runView(cmd *cobra.Command, args []string) {
	var report *reporter.Report
	var err error

	if len(args) == 1 {
		report, err = reporter.Load(args[0])
	} else {
		report, err = reporter.LoadLatest()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading report: %v\n", err)
		os.Exit(1)
	}
	if report == nil {
		fmt.Println("No reports found. Run 'jellymatch identify' first.")
		return
	}

	if err := ui.Run(*report); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runConfig(cmd *cobra.Command, args []string) {
	configPath, err := config.ConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Configuration file: %s\n\n", configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Println("Config file does not exist. Create it with:")
		fmt.Println("\n  mkdir -p ~/.config/jellymatch")
		fmt.Println("  cat > ~/.config/jellymatch/config.toml <<EOF")
		fmt.Print(exampleConfig)
		fmt.Println("EOF")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Current configuration:")
	fmt.Printf("\nLibraries (%d):\n", len(cfg.Libraries.Paths))
	for _, path := range cfg.Libraries.Paths {
		fmt.Printf("  - %s\n", path)
	}

	fmt.Printf("\nLookup settings:\n")
	if cfg.Lookup.APIKey == "" {
		fmt.Printf("  API key: (not set, local-only mode)\n")
	} else {
		fmt.Printf("  API key: (set)\n")
	}
	fmt.Printf("  Base URL: %s\n", cfg.Lookup.BaseURL)
	fmt.Printf("  Workers: %d\n", cfg.Lookup.Workers)

	fmt.Printf("\nCache settings:\n")
	fmt.Printf("  Enabled: %t\n", cfg.Cache.Enabled)
	fmt.Printf("  TTL: %d days\n", cfg.Cache.TTLDays)
}

// buildOrchestrator wires the pipeline from config and command-line flags.
func buildOrchestrator(cfg *config.Config) (*pipeline.Orchestrator, *cache.Store, error) {
	p := parser.New(cfg.Parser.Build())

	var lookup tmdb.Lookup = tmdb.Noop{}
	if !noLookup && cfg.Lookup.APIKey != "" {
		client, err := tmdb.New(cfg.Lookup.APIKey, cfg.Lookup.BaseURL, cfg.Lookup.Language,
			tmdb.WithRateLimit(cfg.Lookup.RateLimit))
		if err != nil {
			return nil, nil, fmt.Errorf("building catalog client: %w", err)
		}
		lookup = client
	}

	var store *cache.Store
	if cfg.Cache.Enabled && !noCache {
		cachePath, err := cfg.CachePath()
		if err != nil {
			return nil, nil, err
		}
		store, err = cache.Open(cachePath, time.Duration(cfg.Cache.TTLDays)*24*time.Hour)
		if err != nil {
			return nil, nil, fmt.Errorf("opening cache: %w", err)
		}
	}

	return pipeline.New(p, cfg.Matcher.Build(), lookup, store), store, nil
}

func getLongDescription() string {
	return ui.FormatASCIIHeader() + "\n\n" +
		"jellymatch parses release filenames into structured metadata and matches\n" +
		"them against an external movie catalog. It generates reports and provides\n" +
		"a TUI for reviewing identification results."
}
