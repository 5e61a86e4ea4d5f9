package refnum

import (
	"regexp"
	"testing"
)

var refnumPattern = regexp.MustCompile(`^[A-Z0-9]{3}-[A-Z0-9]{3}$`)

func TestGenerateFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		ref := Generate()
		if !refnumPattern.MatchString(ref) {
			t.Fatalf("Generated reference %q does not match XXX-XXX format", ref)
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[Generate()] = true
	}
	// 100 draws from a 36^6 keyspace collapsing to a handful of values
	// would mean the generator is broken.
	if len(seen) < 90 {
		t.Errorf("Expected close to 100 distinct references, got %d", len(seen))
	}
}
