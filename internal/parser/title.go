package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Earliest year a film could plausibly carry. The Roundhay Garden Scene
// was shot in 1888.
const earliestYear = 1888

// TitleCandidate is the resolved title span of a filename.
type TitleCandidate struct {
	Primary      string // Display title, never empty for non-empty input
	Original     string // Original-language title for bilingual releases
	IsBilingual  bool
	HasJapanese  bool
	HasChinese   bool
	HasKorean    bool
	UsedFallback bool // True when no year and no technical span bounded the title
	Year         int  // 0 when no plausible year was found
	YearIndex    int  // Token index of the year, -1 when absent
}

// ResolveTitle determines the title span from the token stream after
// technical detection. The policy is deterministic: identical streams always
// yield identical candidates.
//
// The title is the longest contiguous prefix of non-technical tokens ending
// at the first plausible 4-digit year or, absent a year, at the first
// technical span. With neither boundary the whole stem becomes the title and
// the fallback is recorded for the confidence scorer.
func ResolveTitle(ts TokenStream, attrs TechnicalAttributes) TitleCandidate {
	cand := TitleCandidate{YearIndex: -1}
	if ts.Empty() {
		return cand
	}

	cand.HasChinese = containsScript(ts.Raw, unicode.Han)
	cand.HasJapanese = containsScript(ts.Raw, unicode.Hiragana) || containsScript(ts.Raw, unicode.Katakana)
	cand.HasKorean = containsScript(ts.Raw, unicode.Hangul)

	cand.Year, cand.YearIndex = findYear(ts, attrs)

	start := 0

	// Bilingual bracket form: "[原语标题] Latin Title ..." keeps the bracket
	// content as the original-language title.
	if first := ts.Tokens[0]; first.Bracketed && !containsLatin(first.Text) &&
		len(ts.Tokens) > 1 && containsLatin(ts.Tokens[1].Text) {
		cand.Original = strings.TrimSpace(first.Text)
		cand.IsBilingual = true
		start = 1
	}

	// Unbracketed CJK prefix directly followed by a Latin run: keep both.
	// The Latin run becomes the primary title; CJK presence is flagged but
	// never empties the primary.
	if start == 0 && isCJKToken(ts.Tokens[0].Text) {
		cjkEnd := 0
		for cjkEnd < len(ts.Tokens) && isCJKToken(ts.Tokens[cjkEnd].Text) {
			cjkEnd++
		}
		if cjkEnd < len(ts.Tokens) && containsLatin(ts.Tokens[cjkEnd].Text) && !attrs.IsTechnical(cjkEnd) {
			texts := make([]string, 0, cjkEnd)
			for _, t := range ts.Tokens[:cjkEnd] {
				texts = append(texts, t.Text)
			}
			cand.Original = strings.Join(texts, " ")
			cand.IsBilingual = true
			start = cjkEnd
		}
	}

	boundary := cand.YearIndex
	if boundary == -1 || boundary < start {
		boundary = attrs.FirstTechnicalIndex()
	}

	var parts []string
	if boundary == -1 {
		// No year, no technical span: the whole stem is the title.
		for _, t := range ts.Tokens[start:] {
			parts = append(parts, t.Text)
		}
		cand.UsedFallback = true
	} else {
		for i := start; i < boundary && i < len(ts.Tokens); i++ {
			if attrs.IsTechnical(i) {
				break
			}
			parts = append(parts, ts.Tokens[i].Text)
		}
	}

	cand.Primary = titleCase(strings.TrimSpace(strings.Join(parts, " ")))

	// The primary title must never be empty for non-empty input. Degrade in
	// order: original-language title, first token, whole stem.
	if cand.Primary == "" {
		switch {
		case cand.Original != "":
			cand.Primary = cand.Original
		case len(ts.Tokens) > 0:
			cand.Primary = ts.Tokens[0].Text
		default:
			cand.Primary = strings.TrimSpace(ts.Raw)
		}
	}

	return cand
}

// findYear returns the first plausible release year and its token index.
// Tokens at index 0 are skipped so titles that are themselves years
// ("2012", "1917") are not consumed as a boundary, and technical spans
// (resolution digits) never qualify.
func findYear(ts TokenStream, attrs TechnicalAttributes) (int, int) {
	maxYear := time.Now().Year() + 2
	for i, tok := range ts.Tokens {
		if i == 0 || attrs.IsTechnical(i) {
			continue
		}
		text := strings.TrimSpace(tok.Text)
		if len(text) != 4 {
			continue
		}
		y, err := strconv.Atoi(text)
		if err != nil {
			continue
		}
		if y >= earliestYear && y <= maxYear {
			return y, i
		}
	}
	return 0, -1
}

func containsScript(s string, table *unicode.RangeTable) bool {
	for _, r := range s {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}

func containsLatin(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}

// isCJKToken reports whether a token is made of CJK script characters
// (ignoring digits and punctuation) with no Latin letters.
func isCJKToken(s string) bool {
	hasCJK := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Latin, r):
			return false
		case unicode.Is(unicode.Han, r), unicode.Is(unicode.Hiragana, r),
			unicode.Is(unicode.Katakana, r), unicode.Is(unicode.Hangul, r):
			hasCJK = true
		}
	}
	return hasCJK
}

var (
	ordinalRegex    = regexp.MustCompile(`^(\d+)(?i:(st|nd|rd|th))$`)
	dottedAbbrRegex = regexp.MustCompile(`^(?:[A-Za-z]\.){2,}$`)
	allCapsRegex    = regexp.MustCompile(`^\d*[A-Z]{2,}\d*$`)
)

var titleCaser = cases.Title(language.English)

// titleCase applies English title casing word by word while preserving
// ordinals (25th), dotted abbreviations (A.I.) and all-caps acronyms (RIPD,
// 8MM). CJK words pass through untouched.
func titleCase(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	for i, w := range words {
		switch {
		case ordinalRegex.MatchString(w):
			m := ordinalRegex.FindStringSubmatch(w)
			words[i] = m[1] + strings.ToLower(m[2])
		case dottedAbbrRegex.MatchString(w), allCapsRegex.MatchString(w):
			// Preserve as-is.
		case !containsLatin(w):
			// CJK or numeric word; title casing does not apply.
		default:
			words[i] = titleCaser.String(strings.ToLower(w))
		}
	}
	return strings.Join(words, " ")
}
