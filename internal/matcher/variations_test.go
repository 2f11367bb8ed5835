package matcher

import (
	"reflect"
	"testing"
)

func TestTitleVariations(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"The Matrix", []string{"The Matrix", "Matrix"}},
		{"Matrix", []string{"Matrix", "The Matrix"}},
		{"A Quiet Place", []string{"A Quiet Place", "Quiet Place"}},
		{"I, Robot", []string{"I, Robot", "The I, Robot", "I Robot"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := TitleVariations(tt.input)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("TitleVariations(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestTitleVariationsOriginalFirst(t *testing.T) {
	for _, input := range []string{"The Matrix", "Inception", "I, Robot"} {
		got := TitleVariations(input)
		if len(got) == 0 || got[0] != input {
			t.Errorf("TitleVariations(%q) should keep the original first, got %v", input, got)
		}
	}
}

func TestTitleVariationsNoDuplicates(t *testing.T) {
	got := TitleVariations("The Matrix")
	seen := make(map[string]bool)
	for _, v := range got {
		if seen[v] {
			t.Errorf("duplicate variation %q in %v", v, got)
		}
		seen[v] = true
	}
}
