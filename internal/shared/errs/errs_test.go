package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindSurvivesWrapping(t *testing.T) {
	errJobMissing := NotFound("job not found")
	wrapped := fmt.Errorf("submit application: %w", errJobMissing)

	if !errors.Is(wrapped, errJobMissing) {
		t.Fatalf("expected wrapped error to match sentinel")
	}
	if Kind(wrapped) != ErrNotFound {
		t.Fatalf("expected ErrNotFound kind, got %v", Kind(wrapped))
	}
	if wrapped.Error() != "submit application: job not found" {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
}

func TestKindUnclassified(t *testing.T) {
	if Kind(errors.New("boom")) != nil {
		t.Fatalf("expected nil kind for plain error")
	}
	if Kind(Conflict("dup")) != ErrConflict {
		t.Fatalf("expected conflict kind")
	}
}
