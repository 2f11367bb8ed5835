package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Nomadcxx/jellymatch/internal/parser"
)

// Progress represents real-time identification progress
type Progress struct {
	Stage      string  // "counting_files", "identifying", "complete"
	Current    int     // Current file number
	Total      int     // Total files
	Percentage float64 // 0-100
	Message    string  // Human-readable status

	// Statistics
	Matched        int
	Unmatched      int
	LookupFailures int

	// Timing
	StartTime      time.Time
	ElapsedSeconds int
}

// progressReporter helps send progress updates
type progressReporter struct {
	ch        chan<- Progress
	startTime time.Time
	total     int

	matched        int
	unmatched      int
	lookupFailures int
}

func newProgressReporter(ch chan<- Progress) *progressReporter {
	return &progressReporter{
		ch:        ch,
		startTime: time.Now(),
	}
}

// Start sends initial progress with total count
func (pr *progressReporter) Start(total int, message string) {
	pr.total = total
	pr.send("identifying", 0, message)
}

// Record tallies an outcome and sends a progress update
func (pr *progressReporter) Record(current int, out Outcome) {
	switch {
	case out.Matched():
		pr.matched++
	case out.State == StateAwaitingMatch:
		pr.lookupFailures++
	default:
		pr.unmatched++
	}
	pr.send("identifying", current, filepath.Base(out.Filename))
}

// Complete sends completion message
func (pr *progressReporter) Complete(message string) {
	pr.send("complete", pr.total, message)
}

func (pr *progressReporter) send(stage string, current int, message string) {
	if pr.ch == nil {
		return
	}

	percentage := 0.0
	if pr.total > 0 {
		percentage = (float64(current) / float64(pr.total)) * 100.0
	}
	if stage == "complete" {
		percentage = 100.0
	}

	pr.ch <- Progress{
		Stage:          stage,
		Current:        current,
		Total:          pr.total,
		Percentage:     percentage,
		Message:        message,
		Matched:        pr.matched,
		Unmatched:      pr.unmatched,
		LookupFailures: pr.lookupFailures,
		StartTime:      pr.startTime,
		ElapsedSeconds: int(time.Since(pr.startTime).Seconds()),
	}
}

// CollectVideoFiles walks the given library paths and returns every video
// file found, in walk order.
func CollectVideoFiles(paths []string) ([]string, error) {
	var files []string

	for _, libPath := range paths {
		if _, err := os.Stat(libPath); err != nil {
			return nil, fmt.Errorf("library path not accessible: %s: %w", libPath, err)
		}

		err := filepath.Walk(libPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && parser.IsVideoFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", libPath, err)
		}
	}

	return files, nil
}
