package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "1", false},
		{"valid with spaces", "node 42", false},
		{"valid unicode", "état", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", maxNameLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGraphFiles(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		code    Code
		wantErr bool
	}{
		{"single dot", []string{"graph.dot"}, "", false},
		{"single gv upper", []string{"graph.GV"}, "", false},

		{"none", nil, ErrCodeInvalidInput, true},
		{"two files", []string{"a.dot", "b.dot"}, ErrCodeInvalidInput, true},
		{"wrong extension", []string{"graph.json"}, ErrCodeInvalidFormat, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraphFiles(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateGraphFiles(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !Is(err, tt.code) {
				t.Errorf("code = %v, want %v", GetCode(err), tt.code)
			}
		})
	}
}

func TestValidateSplitIndex(t *testing.T) {
	if err := ValidateSplitIndex(0, 1); err != nil {
		t.Errorf("ValidateSplitIndex(0, 1) = %v", err)
	}
	for _, i := range []int{-1, 1, 5} {
		if err := ValidateSplitIndex(i, 1); !Is(err, ErrCodeInvalidSplit) {
			t.Errorf("ValidateSplitIndex(%d, 1) = %v, want INVALID_SPLIT", i, err)
		}
	}
}
