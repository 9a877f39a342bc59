package errors

import (
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "bgm", false},
		{"valid with extension", "hero.png", false},
		{"valid unicode", "背景音乐", false},
		{"valid with spaces", "main menu", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateAssetName(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestSanitizeAssetName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"bgm", "bgm"},
		{"ui/button", "ui_button"},
		{"..", "fallback"},
		{"", "fallback"},
		{"a\tb", "a_b"},
		{"/", "fallback"},
	}
	for _, tt := range tests {
		if got := SanitizeAssetName(tt.input, "fallback"); got != tt.want {
			t.Errorf("SanitizeAssetName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"/tmp/game", false},
		{"relative/dir", false},
		{"", true},
		{"bad\x00path", true},
	}
	for _, tt := range tests {
		err := ValidatePath(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
