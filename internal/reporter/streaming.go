package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Nomadcxx/jellymatch/internal/pipeline"
)

// StreamingReporter writes outcomes incrementally so very large libraries
// do not require the full result set in memory. Outcomes go to a JSON-lines
// file; a companion summary file gets the totals on Finalize.
type StreamingReporter struct {
	timestamp     time.Time
	libraryPaths  []string
	summaryWriter *bufio.Writer
	outcomeWriter *bufio.Writer
	summaryFile   *os.File
	outcomeFile   *os.File

	total          int
	matched        int
	unmatched      int
	lookupFailures int
}

// NewStreamingReporter creates a new streaming reporter
func NewStreamingReporter(libraryPaths []string) (*StreamingReporter, error) {
	reportDir := getReportDir()
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := time.Now()
	timestampStr := timestamp.Format("20060102_150405")

	summaryPath := filepath.Join(reportDir, timestampStr+"_summary.txt")
	summaryFile, err := os.Create(summaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary file: %w", err)
	}

	outcomePath := filepath.Join(reportDir, timestampStr+"_outcomes.jsonl")
	outcomeFile, err := os.Create(outcomePath)
	if err != nil {
		summaryFile.Close()
		return nil, fmt.Errorf("failed to create outcomes file: %w", err)
	}

	sr := &StreamingReporter{
		timestamp:     timestamp,
		libraryPaths:  libraryPaths,
		summaryFile:   summaryFile,
		outcomeFile:   outcomeFile,
		summaryWriter: bufio.NewWriter(summaryFile),
		outcomeWriter: bufio.NewWriter(outcomeFile),
	}

	if err := sr.writeHeader(); err != nil {
		sr.Close()
		return nil, err
	}

	return sr, nil
}

// writeHeader writes the initial header to the summary file
func (sr *StreamingReporter) writeHeader() error {
	header := fmt.Sprintf("Jellymatch Identification Report\n")
	header += fmt.Sprintf("Generated: %s\n", sr.timestamp.Format(time.RFC1123))
	header += fmt.Sprintf("Library Paths:\n")
	for _, path := range sr.libraryPaths {
		header += fmt.Sprintf("  - %s\n", path)
	}
	header += fmt.Sprintf("\n")

	if _, err := sr.summaryWriter.WriteString(header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	return nil
}

// WriteOutcome writes a single identification outcome (streaming)
func (sr *StreamingReporter) WriteOutcome(ctx context.Context, out pipeline.Outcome) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	sr.total++
	switch {
	case out.Matched():
		sr.matched++
	case out.State == pipeline.StateAwaitingMatch:
		sr.lookupFailures++
	default:
		sr.unmatched++
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	if _, err := sr.outcomeWriter.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("failed to write outcome: %w", err)
	}

	return nil
}

// Finalize writes summary statistics and flushes both files
func (sr *StreamingReporter) Finalize() error {
	summary := fmt.Sprintf("=== Identification Results ===\n")
	summary += fmt.Sprintf("Files identified: %d\n", sr.total)
	summary += fmt.Sprintf("Matched: %d\n", sr.matched)
	summary += fmt.Sprintf("Unmatched: %d\n", sr.unmatched)
	summary += fmt.Sprintf("Lookup failures: %d\n", sr.lookupFailures)
	summary += fmt.Sprintf("\n")

	if _, err := sr.summaryWriter.WriteString(summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if err := sr.summaryWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary: %w", err)
	}
	if err := sr.outcomeWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush outcomes: %w", err)
	}

	return nil
}

// Close closes all file handles
func (sr *StreamingReporter) Close() error {
	var errs []error

	if sr.summaryFile != nil {
		if err := sr.summaryFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close summary: %w", err))
		}
	}

	if sr.outcomeFile != nil {
		if err := sr.outcomeFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close outcomes: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing files: %v", errs)
	}

	return nil
}

// GetPaths returns the paths to the generated report files
func (sr *StreamingReporter) GetPaths() (string, string) {
	return sr.summaryFile.Name(), sr.outcomeFile.Name()
}
