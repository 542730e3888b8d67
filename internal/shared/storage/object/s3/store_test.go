package s3

import (
	"fmt"
	"io"
	"strings"
	"testing"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "owner/cv.pdf", want: "owner/cv.pdf"},
		{name: "simple prefix", prefix: "root", key: "owner/cv.pdf", want: "root/owner/cv.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "owner/cv.pdf", want: "root/owner/cv.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/owner/cv.pdf", want: "root/owner/cv.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "owner/cv.pdf", want: "root/sub/owner/cv.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("get: %w", &s3types.NoSuchKey{})) {
		t.Fatalf("expected NoSuchKey to map to not found")
	}
	if !isNotFound(&s3types.NotFound{}) {
		t.Fatalf("expected NotFound to map to not found")
	}
	if isNotFound(fmt.Errorf("throttled")) {
		t.Fatalf("expected generic error to pass through")
	}
}

func TestCountingReader(t *testing.T) {
	t.Parallel()

	cr := &countingReader{r: strings.NewReader("resume body")}
	if _, err := io.Copy(io.Discard, cr); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if cr.n != int64(len("resume body")) {
		t.Fatalf("expected %d bytes counted, got %d", len("resume body"), cr.n)
	}
}
