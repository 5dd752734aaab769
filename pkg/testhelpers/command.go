package testhelpers

import "testing"

// CommandAnnotationTest is one expected key/value pair in a cobra command's Annotations.
type CommandAnnotationTest struct {
	Key      string
	Expected string
}

// TestCommandAnnotations checks every expected annotation against the command's annotations.
func TestCommandAnnotations(t *testing.T, annotations map[string]string, tests []CommandAnnotationTest) {
	t.Helper()
	for _, tt := range tests {
		got, ok := annotations[tt.Key]
		if !ok {
			t.Errorf("Expected annotation %q to be set", tt.Key)
			continue
		}
		if got != tt.Expected {
			t.Errorf("Expected annotation %q to be %q, got %q", tt.Key, tt.Expected, got)
		}
	}
}
