package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxNameLength bounds node names accepted from requests.
const maxNameLength = 1024

// ValidateNodeName validates a node name received from a user or request.
//
// Names are opaque identifiers from the model checker, so only the structural
// rules are checked: non-empty, bounded length and no control characters.
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "node name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name contains invalid control characters")
		}
	}
	return nil
}

// ValidateGraphFiles checks the list of files handed to a load action.
// Exactly one file is accepted; more than one is a user error, as is a file
// without a graph description extension.
func ValidateGraphFiles(paths []string) error {
	switch len(paths) {
	case 0:
		return New(ErrCodeInvalidInput, "no graph file given")
	case 1:
	default:
		return New(ErrCodeInvalidInput, "only one graph file can be opened at a time, got %d", len(paths))
	}

	ext := strings.ToLower(filepath.Ext(paths[0]))
	switch ext {
	case ".dot", ".gv":
		return nil
	default:
		return New(ErrCodeInvalidFormat, "unsupported file type %q (want .dot or .gv)", ext)
	}
}

// ValidateSplitIndex checks that i addresses one of n splits.
func ValidateSplitIndex(i, n int) error {
	if i < 0 || i >= n {
		return New(ErrCodeInvalidSplit, "split %d out of range (have %d)", i, n)
	}
	return nil
}
