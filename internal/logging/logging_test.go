package logging

import "testing"

func TestNew(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		logger, err := New(verbose)
		if err != nil {
			t.Fatalf("New(%v) failed: %v", verbose, err)
		}
		if logger == nil {
			t.Fatalf("New(%v) returned nil logger", verbose)
		}
	}
}

func TestNop(t *testing.T) {
	// Must be safe to log against without any setup.
	Nop().Info("discarded")
}
