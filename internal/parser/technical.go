package parser

import (
	"regexp"
	"strings"
)

// Vocabulary holds the configurable technical term lists. The lists are
// injected from configuration so operators can extend them without code
// changes; DefaultVocabulary mirrors the terms the scanner shipped with.
type Vocabulary struct {
	Resolution   []string // 1080p, 2160p, 4K, UHD, ...
	Source       []string // BluRay, WEB-DL, HDTV, ...
	CodecAudio   []string // x265, HEVC, DTS, AAC, Atmos, ...
	ReleaseGroup []string // YTS, RARBG, FRDS, ...
	Language     []string // ITA, ENG, MULTI, ...
}

// DefaultVocabulary returns the built-in term lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Resolution: []string{
			"480p", "576p", "720p", "1080p", "1080i", "1440p", "2160p", "4320p",
			"4K", "2K", "8K", "UHD", "FHD", "HD", "SD",
		},
		Source: []string{
			"BluRay", "Blu-ray", "BDRip", "BRRip", "REMUX", "WEB-DL", "WEBDL",
			"WEBRip", "WEB", "HDTV", "PDTV", "SDTV", "DVDRip", "DVDSCR", "DVD",
			"HDRip", "CAM", "HDTS", "TELESYNC", "iTunes", "AMZN", "NF", "DSNP",
			"HMAX", "HULU", "ATVP",
		},
		CodecAudio: []string{
			"x264", "x265", "x266", "H264", "H265", "H266", "HEVC", "AVC", "AV1",
			"XviD", "DivX", "VP9", "10bit", "8bit", "12bit", "HDR", "HDR10",
			"HDR10+", "DoVi", "DV", "SDR", "HLG",
			"AAC", "AC3", "EAC3", "DD", "DDP", "DTS", "DTS-HD", "DTS-X", "TrueHD",
			"Atmos", "FLAC", "PCM", "LPCM", "Opus", "MP3", "MA",
		},
		ReleaseGroup: []string{
			"YTS", "YIFY", "RARBG", "FGT", "SPARKS", "ROVERS", "EVO", "CMRG",
			"ETRG", "MKVCAGE", "PSA", "TGX", "FRDS", "CHD", "WiKi", "CtrlHD",
			"FraMeSToR", "MTeam", "HDSky", "CMCT", "SNAKE", "PSYCHD",
		},
		Language: []string{
			"MULTI", "DUAL", "DUBBED", "SUBBED", "MSubs", "ITA", "FRE", "FRA",
			"GER", "SPA", "ESP", "ENG", "JPN", "KOR", "CHS", "CHT", "RUS", "HIN",
			"NORDiC", "VOSTFR",
		},
	}
}

// TechField identifies the category a technical span was matched under.
type TechField string

const (
	FieldResolution   TechField = "resolution"
	FieldSource       TechField = "source"
	FieldCodec        TechField = "codec"
	FieldAudio        TechField = "audio"
	FieldReleaseGroup TechField = "release_group"
	FieldLanguage     TechField = "language"
)

// TechnicalAttributes holds the resolved technical fields along with the
// token indices they were matched at, so title resolution can exclude them.
// The first deterministic match per field wins; later hits are still marked
// technical but do not overwrite the field value.
type TechnicalAttributes struct {
	Resolution   string
	Source       string
	Codec        string
	Audio        string
	ReleaseGroup string
	Language     string

	spans map[int]TechField
}

// IsTechnical reports whether the token at index i was classified as a
// technical span.
func (a TechnicalAttributes) IsTechnical(i int) bool {
	_, ok := a.spans[i]
	return ok
}

// FirstTechnicalIndex returns the lowest technical token index, or -1.
func (a TechnicalAttributes) FirstTechnicalIndex() int {
	first := -1
	for i := range a.spans {
		if first == -1 || i < first {
			first = i
		}
	}
	return first
}

// Field returns the category the token at index i was matched under.
func (a TechnicalAttributes) Field(i int) (TechField, bool) {
	f, ok := a.spans[i]
	return f, ok
}

var (
	genericResolutionRegex = regexp.MustCompile(`^\d{3,4}[pi]$`)
	audioChannelsRegex     = regexp.MustCompile(`^\d\.\d$`)
	multiAudioRegex        = regexp.MustCompile(`^(?i)\d+Audios?$`)
	groupishRegex          = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9@]{1,14}$`)
)

// DetectTechnical scans the stream left to right and classifies technical
// spans against the vocabulary. The scan order is fixed, so results are
// deterministic for identical input.
func DetectTechnical(ts TokenStream, vocab Vocabulary) TechnicalAttributes {
	attrs := TechnicalAttributes{spans: make(map[int]TechField)}

	for i, tok := range ts.Tokens {
		switch {
		case matchesTerm(tok.Text, vocab.Resolution) || genericResolutionRegex.MatchString(tok.Text):
			attrs.mark(i, FieldResolution, &attrs.Resolution, canonicalResolution(tok.Text))
		case matchesTerm(tok.Text, vocab.Source):
			attrs.mark(i, FieldSource, &attrs.Source, tok.Text)
		case audioChannelsRegex.MatchString(tok.Text) || multiAudioRegex.MatchString(tok.Text):
			attrs.mark(i, FieldAudio, &attrs.Audio, tok.Text)
		case matchesTerm(tok.Text, vocab.CodecAudio):
			attrs.mark(i, FieldCodec, &attrs.Codec, tok.Text)
		case matchesTerm(tok.Text, vocab.Language):
			attrs.mark(i, FieldLanguage, &attrs.Language, tok.Text)
		case matchesTerm(tok.Text, vocab.ReleaseGroup):
			attrs.mark(i, FieldReleaseGroup, &attrs.ReleaseGroup, tok.Text)
		case tok.Bracketed && containsTechnicalWord(tok.Text, vocab):
			// Bracketed blobs like "[Org BD 2.0 Hindi + DD 5.1 English]" are
			// technical as a whole but contribute no single field value.
			attrs.spans[i] = FieldAudio
		}
	}

	resolveReleaseGroup(ts, vocab, &attrs)
	return attrs
}

// resolveReleaseGroup prefers the trailing hyphen-prefixed token (x264-GROUP)
// or a trailing bracket-wrapped token over vocabulary hits in the middle.
func resolveReleaseGroup(ts TokenStream, vocab Vocabulary, attrs *TechnicalAttributes) {
	if len(ts.Tokens) == 0 {
		return
	}

	last := len(ts.Tokens) - 1
	tok := ts.Tokens[last]

	trailing := ""
	switch {
	case tok.HyphenLed && !tok.Bracketed && groupishRegex.MatchString(tok.Text) && !isOtherField(*attrs, last):
		trailing = tok.Text
	case tok.Bracketed && last > 0 && groupishRegex.MatchString(tok.Text) && !attrs.IsTechnical(last):
		trailing = tok.Text
	}

	if trailing != "" {
		attrs.ReleaseGroup = trailing
		attrs.spans[last] = FieldReleaseGroup
	}
}

// isOtherField reports whether token i already resolved to a non-group field.
func isOtherField(attrs TechnicalAttributes, i int) bool {
	f, ok := attrs.spans[i]
	return ok && f != FieldReleaseGroup
}

func (a *TechnicalAttributes) mark(i int, field TechField, slot *string, value string) {
	a.spans[i] = field
	if *slot == "" {
		*slot = value
	}
}

// matchesTerm is a case-insensitive whole-token comparison.
func matchesTerm(text string, terms []string) bool {
	for _, term := range terms {
		if strings.EqualFold(text, term) {
			return true
		}
	}
	return false
}

// containsTechnicalWord checks the space-separated words inside a bracketed
// group against every vocabulary list.
func containsTechnicalWord(text string, vocab Vocabulary) bool {
	for _, w := range strings.Fields(text) {
		if matchesTerm(w, vocab.Resolution) || matchesTerm(w, vocab.Source) ||
			matchesTerm(w, vocab.CodecAudio) || matchesTerm(w, vocab.Language) ||
			genericResolutionRegex.MatchString(w) || audioChannelsRegex.MatchString(w) {
			return true
		}
	}
	return false
}

// canonicalResolution folds 4K/UHD aliases into 2160p, matching how the
// library naming conventions express resolution.
func canonicalResolution(text string) string {
	switch strings.ToUpper(text) {
	case "4K", "UHD":
		return "2160p"
	case "2K":
		return "1440p"
	}
	return strings.ToLower(text)
}
