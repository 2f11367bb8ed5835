// Package pipeline drives a filename through parsing, local confidence
// scoring and external candidate matching, producing one Outcome per file.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nomadcxx/jellymatch/internal/cache"
	"github.com/Nomadcxx/jellymatch/internal/matcher"
	"github.com/Nomadcxx/jellymatch/internal/parser"
	"github.com/Nomadcxx/jellymatch/internal/tmdb"
)

// State tracks how far a file progressed through the pipeline.
type State string

const (
	StateTokenized         State = "tokenized"
	StateTechnicalStripped State = "technical_stripped"
	StateTitleResolved     State = "title_resolved"
	StateLocallyScored     State = "locally_scored"
	StateAwaitingMatch     State = "awaiting_match"
	StateFinalized         State = "finalized"
	StateUnmatched         State = "unmatched"
)

// Outcome is the result of identifying a single file. Parsed is always
// populated, even when the catalog lookup failed, so local results survive
// external outages.
type Outcome struct {
	Filename  string               `json:"filename"`
	State     State                `json:"state"`
	Parsed    *parser.ParsedMedia  `json:"parsed"`
	Match     *matcher.MatchResult `json:"match,omitempty"`
	LookupErr string               `json:"lookup_error,omitempty"`
}

// Matched reports whether a catalog candidate was accepted.
func (o Outcome) Matched() bool {
	return o.State == StateFinalized && o.Match != nil
}

// Orchestrator owns the parsing and matching collaborators. It is safe for
// concurrent use.
type Orchestrator struct {
	parser     *parser.Parser
	matcherCfg matcher.Config
	lookup     tmdb.Lookup
	store      *cache.Store // nil disables caching
}

// New creates an orchestrator. A nil lookup falls back to the no-op client
// so results stay local-only.
func New(p *parser.Parser, matcherCfg matcher.Config, lookup tmdb.Lookup, store *cache.Store) *Orchestrator {
	if lookup == nil {
		lookup = tmdb.Noop{}
	}
	return &Orchestrator{
		parser:     p,
		matcherCfg: matcherCfg,
		lookup:     lookup,
		store:      store,
	}
}

// Parse runs the local half of the pipeline only, consulting the cache.
func (o *Orchestrator) Parse(filename string) (*parser.ParsedMedia, error) {
	if o.store != nil {
		if cached, err := o.store.GetParsed(filename); err != nil {
			return nil, fmt.Errorf("reading parse cache: %w", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	parsed := o.parser.Parse(filename)
	if o.store != nil {
		if err := o.store.PutParsed(filename, &parsed); err != nil {
			return nil, fmt.Errorf("writing parse cache: %w", err)
		}
	}
	return &parsed, nil
}

// Identify runs the full pipeline for one filename. A catalog service
// failure does not discard the local parse; the outcome stays in
// awaiting_match with the error recorded.
func (o *Orchestrator) Identify(ctx context.Context, filename string) (Outcome, error) {
	out := Outcome{Filename: filename, State: StateTokenized}

	parsed, err := o.Parse(filename)
	if err != nil {
		return out, err
	}
	out.Parsed = parsed
	out.State = StateLocallyScored

	match, lookupErr := o.findMatch(ctx, parsed)
	if lookupErr != nil {
		var svcErr *tmdb.ServiceError
		if errors.As(lookupErr, &svcErr) {
			out.State = StateAwaitingMatch
			out.LookupErr = svcErr.Error()
			return out, nil
		}
		return out, lookupErr
	}

	if match == nil {
		out.State = StateUnmatched
		return out, nil
	}

	out.State = StateFinalized
	out.Match = match
	return out, nil
}

// findMatch tries each title variation against the catalog, first with the
// parsed year and then without, and returns the first candidate set that
// produces a match above the similarity floor. Candidates found through a
// variation are still scored against the parsed title.
func (o *Orchestrator) findMatch(ctx context.Context, parsed *parser.ParsedMedia) (*matcher.MatchResult, error) {
	variations := matcher.TitleVariations(parsed.Title)
	if parsed.OriginalTitle != "" && parsed.OriginalTitle != parsed.Title {
		variations = append(variations, parsed.OriginalTitle)
	}

	for _, title := range variations {
		years := []int{parsed.Year}
		if parsed.Year != 0 {
			years = append(years, 0)
		}
		for _, year := range years {
			candidates, err := o.searchCandidates(ctx, title, year)
			if err != nil {
				return nil, err
			}
			if len(candidates) == 0 {
				continue
			}
			if match := matcher.FindBestMatch(parsed.Title, parsed.Year, candidates, o.matcherCfg); match != nil {
				return match, nil
			}
		}
	}
	return nil, nil
}

// searchCandidates wraps the catalog lookup with the candidate cache.
func (o *Orchestrator) searchCandidates(ctx context.Context, title string, year int) ([]matcher.CandidateRecord, error) {
	if o.store != nil {
		if cached, ok, err := o.store.GetCandidates(title, year); err != nil {
			return nil, fmt.Errorf("reading candidate cache: %w", err)
		} else if ok {
			return cached, nil
		}
	}

	candidates, err := o.lookup.Search(ctx, title, year)
	if err != nil {
		return nil, err
	}

	if o.store != nil {
		if err := o.store.PutCandidates(title, year, candidates); err != nil {
			return nil, fmt.Errorf("writing candidate cache: %w", err)
		}
	}
	return candidates, nil
}
