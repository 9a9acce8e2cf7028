package obfuscate

import (
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"mild", Mild},
		{"moderate", Moderate},
		{"extreme", Extreme},
		{"MILD", Mild},
		{"Moderate", Moderate},
		{"EXTREME", Extreme},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if err != nil {
				t.Fatalf("ParseLevel(%q) returned error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseLevelSuggestsClosest(t *testing.T) {
	_, err := ParseLevel("extrme")
	if err == nil {
		t.Fatal("expected an error for unknown level")
	}
	if !strings.Contains(err.Error(), "Did you mean 'extreme'?") {
		t.Errorf("expected a suggestion for 'extreme', got: %v", err)
	}
}

func TestParseLevelUnknownListsOptions(t *testing.T) {
	_, err := ParseLevel("banana")
	if err == nil {
		t.Fatal("expected an error for unknown level")
	}
	if !strings.Contains(err.Error(), "expected one of: mild, moderate, extreme") {
		t.Errorf("expected the accepted names in the error, got: %v", err)
	}
}

func TestLevelStrings(t *testing.T) {
	if got := Moderate.String(); got != "moderate" {
		t.Errorf("Moderate.String() = %q", got)
	}
	if got := Level(9).String(); got != "Level(9)" {
		t.Errorf("Level(9).String() = %q", got)
	}
	for _, level := range Levels() {
		if level.Description() == "" {
			t.Errorf("level %v has no description", level)
		}
	}
}
