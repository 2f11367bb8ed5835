package pipeline

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
)

// ParallelConfig holds configuration for concurrent identification
type ParallelConfig struct {
	Workers int // Number of concurrent workers (default: number of CPUs)
}

// DefaultParallelConfig returns the standard worker count
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		Workers: runtime.NumCPU(),
	}
}

// IdentifyAll walks the library paths and identifies every video file using
// a worker pool. Outcomes are returned sorted by filename so runs are
// reproducible regardless of worker scheduling. Progress updates go to
// progressCh when it is non-nil; the channel is not closed by IdentifyAll.
// Supports context cancellation for graceful shutdown.
func (o *Orchestrator) IdentifyAll(ctx context.Context, paths []string, config ParallelConfig, progressCh chan<- Progress) ([]Outcome, error) {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}

	reporter := newProgressReporter(progressCh)

	files, err := CollectVideoFiles(paths)
	if err != nil {
		return nil, err
	}
	reporter.Start(len(files), "identifying files")

	var mu sync.Mutex
	outcomes := make([]Outcome, 0, len(files))
	processed := 0

	var wg sync.WaitGroup
	fileChan := make(chan string, len(files))

	var identifyErr error
	var errOnce sync.Once

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					errOnce.Do(func() { identifyErr = ctx.Err() })
					return
				case file, ok := <-fileChan:
					if !ok {
						return
					}
					out, err := o.Identify(ctx, filepath.Base(file))
					if err != nil {
						errOnce.Do(func() { identifyErr = err })
						return
					}
					out.Filename = file

					mu.Lock()
					outcomes = append(outcomes, out)
					processed++
					reporter.Record(processed, out)
					mu.Unlock()
				}
			}
		}()
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			close(fileChan)
			wg.Wait()
			return nil, ctx.Err()
		case fileChan <- file:
		}
	}
	close(fileChan)

	wg.Wait()

	if identifyErr != nil {
		return nil, identifyErr
	}

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Filename < outcomes[j].Filename
	})
	reporter.Complete("identification complete")

	return outcomes, nil
}
