package parser

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Token is a single segment of a filename stem with its original byte span.
type Token struct {
	Text      string // Segment text (bracket/paren content excludes the delimiters)
	Start     int    // Byte offset of the segment in the stem (including brackets)
	End       int    // Byte offset one past the segment
	Bracketed bool   // True for [...] and (...) groups
	HyphenLed bool   // True if the delimiter immediately before this token was '-'
}

// TokenStream is the ordered segmentation of a filename stem.
// It is never reordered after construction.
type TokenStream struct {
	Raw    string
	Tokens []Token
}

// Abbreviation runs like "A.I." or "S.W.A.T." stay intact during splitting.
var abbrevRunRegex = regexp.MustCompile(`^(?:[A-Z]\.){2,}`)

// Tokenize splits a filename stem (extension already removed) into ordered
// segments. Splits happen on '.', '_', '-' and whitespace, except:
//   - bracketed and parenthesized groups are kept as single atomic segments
//   - single-digit '.' single-digit audio channel markers (5.1, 7.1) survive
//   - capital-letter abbreviation runs (A.I., D.E.B.S.) survive
//
// Empty input yields an empty stream. Tokenize never fails.
func Tokenize(stem string) TokenStream {
	ts := TokenStream{Raw: stem}

	i := 0
	prevDelim := byte(0)
	n := len(stem)
	for i < n {
		r, size := utf8.DecodeRuneInString(stem[i:])

		switch {
		case r == '[' || r == '(':
			closer := byte(']')
			if r == '(' {
				closer = ')'
			}
			end := n
			inner := stem[i+size:]
			for j := i + size; j < n; j++ {
				if stem[j] == closer {
					inner = stem[i+size : j]
					end = j + 1
					break
				}
			}
			if inner != "" {
				ts.Tokens = append(ts.Tokens, Token{
					Text:      inner,
					Start:     i,
					End:       end,
					Bracketed: true,
					HyphenLed: prevDelim == '-',
				})
			}
			prevDelim = 0
			i = end

		case isDelimiter(r):
			prevDelim = byte(r)
			i += size

		default:
			end := i + runLength(stem[i:])
			ts.Tokens = append(ts.Tokens, Token{
				Text:      stem[i:end],
				Start:     i,
				End:       end,
				HyphenLed: prevDelim == '-',
			})
			prevDelim = 0
			i = end
		}
	}

	return ts
}

// runLength returns the byte length of the segment starting at the head of s,
// applying the audio-channel and abbreviation exceptions before the plain
// delimiter scan.
func runLength(s string) int {
	if m := abbrevRunRegex.FindString(s); m != "" {
		return len(m)
	}
	if isAudioChannels(s) {
		return 3
	}

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if isDelimiter(r) || r == '[' || r == '(' {
			break
		}
		i += size
	}
	if i == 0 {
		// Defensive: always consume at least one rune.
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	return i
}

// isAudioChannels reports whether s starts with a digit-dot-digit channel
// marker (5.1, 7.1) followed by a boundary. "5.12" is not a channel marker.
func isAudioChannels(s string) bool {
	if len(s) < 3 {
		return false
	}
	if !isASCIIDigit(s[0]) || s[1] != '.' || !isASCIIDigit(s[2]) {
		return false
	}
	if len(s) == 3 {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[3:])
	return !unicode.IsDigit(r) && !unicode.IsLetter(r)
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isDelimiter(r rune) bool {
	return r == '.' || r == '_' || r == '-' || unicode.IsSpace(r)
}

// Words returns the token texts in order. Bracketed content is included as-is.
func (ts TokenStream) Words() []string {
	words := make([]string, 0, len(ts.Tokens))
	for _, t := range ts.Tokens {
		words = append(words, t.Text)
	}
	return words
}

// Empty reports whether the stream holds no segments.
func (ts TokenStream) Empty() bool {
	return len(ts.Tokens) == 0
}
