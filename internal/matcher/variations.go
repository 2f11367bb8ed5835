package matcher

import (
	"strings"
	"unicode"
)

var leadingArticles = []string{"The ", "A ", "An "}

// TitleVariations generates alternate search queries for a title so a failed
// lookup can be retried. The original title is always the first element;
// later entries strip or add a leading article and strip punctuation.
// Duplicates are removed preserving order.
func TitleVariations(title string) []string {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	variations := []string{title}

	for _, article := range leadingArticles {
		if len(title) > len(article) && strings.EqualFold(title[:len(article)], article) {
			variations = append(variations, strings.TrimSpace(title[len(article):]))
		}
	}

	if !hasLeadingArticle(title) {
		variations = append(variations, "The "+title)
	}

	if stripped := stripPunctuation(title); stripped != "" {
		variations = append(variations, stripped)
	}

	return dedupe(variations)
}

func hasLeadingArticle(title string) bool {
	for _, article := range leadingArticles {
		if len(title) > len(article) && strings.EqualFold(title[:len(article)], article) {
			return true
		}
	}
	return false
}

func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
