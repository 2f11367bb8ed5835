package tmdb

import (
	"context"

	"github.com/Nomadcxx/jellymatch/internal/matcher"
)

// Noop satisfies Lookup without touching the network. It stands in for the
// real client when no API key is configured so the pipeline can still run
// in local-only mode.
type Noop struct{}

var _ Lookup = Noop{}

func (Noop) Search(ctx context.Context, title string, year int) ([]matcher.CandidateRecord, error) {
	return nil, nil
}

func (Noop) Fetch(ctx context.Context, id int64) (*matcher.CandidateRecord, error) {
	return nil, nil
}
