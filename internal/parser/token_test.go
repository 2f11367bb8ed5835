package parser

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"The.Matrix.1999.1080p", []string{"The", "Matrix", "1999", "1080p"}},
		{"My_Movie_2020", []string{"My", "Movie", "2020"}},
		{"Movie Name 2024", []string{"Movie", "Name", "2024"}},
		{"Mixed.Delims_Here-Now", []string{"Mixed", "Delims", "Here", "Now"}},
		{"", nil},
		{"...", nil},
		{"Single", []string{"Single"}},
	}

	for _, tt := range tests {
		ts := Tokenize(tt.input)
		if !reflect.DeepEqual(ts.Words(), tt.expected) && !(len(ts.Words()) == 0 && len(tt.expected) == 0) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.input, ts.Words(), tt.expected)
		}
	}
}

func TestTokenizeAudioChannels(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Movie.5.1.DTS", []string{"Movie", "5.1", "DTS"}},
		{"Movie.7.1.TrueHD", []string{"Movie", "7.1", "TrueHD"}},
		// 5.12 is not a channel layout
		{"Movie.5.12", []string{"Movie", "5", "12"}},
	}

	for _, tt := range tests {
		ts := Tokenize(tt.input)
		if !reflect.DeepEqual(ts.Words(), tt.expected) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.input, ts.Words(), tt.expected)
		}
	}
}

func TestTokenizeAbbreviationRuns(t *testing.T) {
	ts := Tokenize("A.I.Artificial.Intelligence.2001")
	expected := []string{"A.I.", "Artificial", "Intelligence", "2001"}
	if !reflect.DeepEqual(ts.Words(), expected) {
		t.Errorf("Tokenize abbreviation run = %v, want %v", ts.Words(), expected)
	}

	ts = Tokenize("S.W.A.T.2003.1080p")
	expected = []string{"S.W.A.T.", "2003", "1080p"}
	if !reflect.DeepEqual(ts.Words(), expected) {
		t.Errorf("Tokenize abbreviation run = %v, want %v", ts.Words(), expected)
	}
}

func TestTokenizeBrackets(t *testing.T) {
	ts := Tokenize("[SubsPlease] Show Name.1080p")
	if len(ts.Tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %v", len(ts.Tokens), ts.Words())
	}
	if !ts.Tokens[0].Bracketed || ts.Tokens[0].Text != "SubsPlease" {
		t.Errorf("expected first token to be bracketed %q, got %+v", "SubsPlease", ts.Tokens[0])
	}
	if ts.Tokens[1].Text != "Show" || ts.Tokens[1].Bracketed {
		t.Errorf("expected plain token %q, got %+v", "Show", ts.Tokens[1])
	}

	// Parenthesized year group stays atomic
	ts = Tokenize("Movie (2009) 720p")
	if len(ts.Tokens) != 3 || !ts.Tokens[1].Bracketed || ts.Tokens[1].Text != "2009" {
		t.Errorf("expected bracketed year token, got %v", ts.Tokens)
	}

	// Multi-word bracket content is one token
	ts = Tokenize("Movie [Org BD 5.1 Hindi]")
	if len(ts.Tokens) != 2 || ts.Tokens[1].Text != "Org BD 5.1 Hindi" {
		t.Errorf("expected atomic bracket group, got %v", ts.Words())
	}
}

func TestTokenizeHyphenLed(t *testing.T) {
	ts := Tokenize("Movie.2020.x264-SPARKS")
	last := ts.Tokens[len(ts.Tokens)-1]
	if last.Text != "SPARKS" || !last.HyphenLed {
		t.Errorf("expected trailing hyphen-led group token, got %+v", last)
	}

	ts = Tokenize("Movie.2020.x264.SPARKS")
	last = ts.Tokens[len(ts.Tokens)-1]
	if last.HyphenLed {
		t.Errorf("dot-separated token should not be hyphen-led: %+v", last)
	}
}

func TestTokenizeSpans(t *testing.T) {
	stem := "The.Matrix.1999"
	ts := Tokenize(stem)
	for _, tok := range ts.Tokens {
		if tok.Bracketed {
			continue
		}
		if stem[tok.Start:tok.End] != tok.Text {
			t.Errorf("span mismatch: stem[%d:%d] = %q, token text %q",
				tok.Start, tok.End, stem[tok.Start:tok.End], tok.Text)
		}
	}
}

func TestTokenizeCJK(t *testing.T) {
	ts := Tokenize("钢铁侠.Iron.Man.2008")
	expected := []string{"钢铁侠", "Iron", "Man", "2008"}
	if !reflect.DeepEqual(ts.Words(), expected) {
		t.Errorf("Tokenize CJK = %v, want %v", ts.Words(), expected)
	}
}
