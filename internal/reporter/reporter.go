package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Nomadcxx/jellymatch/internal/pipeline"
)

// Report represents one identification run over a library
type Report struct {
	Timestamp      time.Time          `json:"timestamp"`
	LibraryPaths   []string           `json:"library_paths"`
	Outcomes       []pipeline.Outcome `json:"outcomes"`
	Matched        int                `json:"matched"`
	Unmatched      int                `json:"unmatched"`
	LookupFailures int                `json:"lookup_failures"`
	Skipped        int                `json:"skipped"`
}

// Build assembles a report from pipeline outcomes, applying the policy to
// count files needing manual review.
func Build(paths []string, outcomes []pipeline.Outcome, policy pipeline.Policy) Report {
	report := Report{
		Timestamp:    time.Now(),
		LibraryPaths: paths,
		Outcomes:     outcomes,
	}
	for _, out := range outcomes {
		switch {
		case out.Matched():
			report.Matched++
		case out.State == pipeline.StateAwaitingMatch:
			report.LookupFailures++
		default:
			report.Unmatched++
		}
		if policy.Decide(out) == pipeline.Skip {
			report.Skipped++
		}
	}
	return report
}

// Generate writes the report as JSON plus a human-readable text file and
// returns the text file path.
func Generate(report Report) (string, error) {
	reportDir := getReportDir()
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := report.Timestamp.Format("20060102_150405")

	jsonPath := filepath.Join(reportDir, timestamp+".json")
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(jsonPath, payload, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	textPath := filepath.Join(reportDir, timestamp+".txt")
	if err := os.WriteFile(textPath, []byte(buildReportContent(report)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return textPath, nil
}

// LoadLatest reads the most recent JSON report, or nil when none exist.
func LoadLatest() (*Report, error) {
	entries, err := os.ReadDir(getReportDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	return Load(filepath.Join(getReportDir(), names[len(names)-1]))
}

// Load reads a JSON report from disk.
func Load(path string) (*Report, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

// getReportDir returns the report directory path
func getReportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/jellymatch/reports"
	}
	return filepath.Join(home, ".local/share/jellymatch/reports")
}

// buildReportContent generates the report text
func buildReportContent(report Report) string {
	var sb strings.Builder

	sb.WriteString("JELLYMATCH IDENTIFICATION REPORT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", report.Timestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Library Paths: %s\n", strings.Join(report.LibraryPaths, ", ")))
	sb.WriteString("\n")

	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Files identified: %d\n", len(report.Outcomes)))
	sb.WriteString(fmt.Sprintf("Matched: %d\n", report.Matched))
	sb.WriteString(fmt.Sprintf("Unmatched: %d\n", report.Unmatched))
	sb.WriteString(fmt.Sprintf("Lookup failures: %d\n", report.LookupFailures))
	sb.WriteString(fmt.Sprintf("Needs review: %d\n", report.Skipped))
	sb.WriteString("\n")

	var matched, unmatched []pipeline.Outcome
	for _, out := range report.Outcomes {
		if out.Matched() {
			matched = append(matched, out)
		} else {
			unmatched = append(unmatched, out)
		}
	}

	if len(matched) > 0 {
		sb.WriteString("MATCHED\n")
		sb.WriteString(strings.Repeat("=", 80) + "\n")
		for _, out := range matched {
			sb.WriteString(formatMatched(out))
		}
		sb.WriteString("\n")
	}

	if len(unmatched) > 0 {
		sb.WriteString("UNMATCHED\n")
		sb.WriteString(strings.Repeat("=", 80) + "\n")
		for _, out := range unmatched {
			sb.WriteString(formatUnmatched(out))
		}
	}

	return sb.String()
}

// formatMatched formats a matched outcome for display
func formatMatched(out pipeline.Outcome) string {
	var sb strings.Builder

	cand := out.Match.Candidate
	year := ""
	if y := matchedYear(cand.ReleaseDate); y != "" {
		year = " (" + y + ")"
	}

	sb.WriteString(fmt.Sprintf("%s\n", filepath.Base(out.Filename)))
	sb.WriteString(fmt.Sprintf("  -> %s%s  [id %d, score %.2f]\n",
		cand.Title, year, cand.ID, out.Match.Score))

	return sb.String()
}

// formatUnmatched formats an unmatched outcome for display
func formatUnmatched(out pipeline.Outcome) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", filepath.Base(out.Filename)))
	if out.Parsed != nil {
		year := ""
		if out.Parsed.Year != 0 {
			year = fmt.Sprintf(" (%d)", out.Parsed.Year)
		}
		sb.WriteString(fmt.Sprintf("  local: %s%s  [confidence %.2f]\n",
			out.Parsed.Title, year, out.Parsed.Confidence))
	}
	if out.LookupErr != "" {
		sb.WriteString(fmt.Sprintf("  lookup error: %s\n", out.LookupErr))
	}

	return sb.String()
}

func matchedYear(releaseDate string) string {
	if len(releaseDate) >= 4 {
		return releaseDate[:4]
	}
	return ""
}
