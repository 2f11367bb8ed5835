package pipeline

// Decision is what the caller should do with an identified file.
type Decision string

const (
	// Accept means the catalog match is trustworthy.
	Accept Decision = "accept"
	// AcceptLocal means no catalog match but the local parse is usable.
	AcceptLocal Decision = "accept_local"
	// Skip means the file needs manual review.
	Skip Decision = "skip"
)

// Policy turns an Outcome into a Decision.
type Policy struct {
	// MinConfidence gates AcceptLocal for unmatched files.
	MinConfidence float64
	// SkipUnmatched forces every unmatched file to Skip regardless of
	// local confidence.
	SkipUnmatched bool
}

// DefaultPolicy accepts local parses at or above 0.5 confidence.
func DefaultPolicy() Policy {
	return Policy{MinConfidence: 0.5}
}

// Decide applies the policy. A finalized match is always accepted; files
// still awaiting a match after a service failure are treated like
// unmatched files so an outage never discards local work.
func (p Policy) Decide(out Outcome) Decision {
	if out.Matched() {
		return Accept
	}
	if p.SkipUnmatched {
		return Skip
	}
	if out.Parsed != nil && out.Parsed.Confidence >= p.MinConfidence {
		return AcceptLocal
	}
	return Skip
}
