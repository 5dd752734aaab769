package types

import (
	"fmt"
	"strings"
)

// PatchOperation is the kind of edit applied at a patch target.
type PatchOperation string

const (
	PatchAppend  PatchOperation = "append"
	PatchPrepend PatchOperation = "prepend"
	PatchReplace PatchOperation = "replace"
)

// PatchOperations lists every supported PatchOperation in declaration order.
var PatchOperations = []PatchOperation{PatchAppend, PatchPrepend, PatchReplace}

// TargetType identifies what a patch target refers to inside a note.
type TargetType string

const (
	TargetHeading     TargetType = "heading"
	TargetBlock       TargetType = "block"
	TargetFrontmatter TargetType = "frontmatter"
)

// TargetTypes lists every supported TargetType in declaration order.
var TargetTypes = []TargetType{TargetHeading, TargetBlock, TargetFrontmatter}

// ValidatePatchOperation returns the PatchOperation matching input, or an error if it is unsupported.
func ValidatePatchOperation(input string) (PatchOperation, error) {
	for _, op := range PatchOperations {
		if string(op) == input {
			return op, nil
		}
	}
	return "", fmt.Errorf(
		"unsupported patch operation: '%s' (acceptable values: %s)", input, quoteAll(PatchOperations),
	)
}

// ValidateTargetType returns the TargetType matching input, or an error if it is unsupported.
func ValidateTargetType(input string) (TargetType, error) {
	for _, tt := range TargetTypes {
		if string(tt) == input {
			return tt, nil
		}
	}
	return "", fmt.Errorf(
		"unsupported target type: '%s' (acceptable values: %s)", input, quoteAll(TargetTypes),
	)
}

func quoteAll[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + string(v) + "'"
	}
	return strings.Join(quoted, ", ")
}

// FileList is the body returned by the vault listing endpoints.
type FileList struct {
	Files []string `json:"files"`
}

// MatchSpan is the character range of a search hit inside its context string.
type MatchSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SearchMatch is one hit reported by the vault's simple search.
type SearchMatch struct {
	Context string    `json:"context"`
	Match   MatchSpan `json:"match"`
}

// SearchResult groups the simple search hits of a single file.
type SearchResult struct {
	Filename string        `json:"filename"`
	Score    float64       `json:"score"`
	Matches  []SearchMatch `json:"matches"`
}

// SearchHitMatch is a SearchMatch as presented to the calling agent.
type SearchHitMatch struct {
	Context       string    `json:"context"`
	MatchPosition MatchSpan `json:"match_position"`
}

// SearchHit is a SearchResult as presented to the calling agent.
type SearchHit struct {
	Filename string           `json:"filename"`
	Score    float64          `json:"score"`
	Matches  []SearchHitMatch `json:"matches"`
}
