package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if err := s.Save(ctx, "doc-1_po.pdf", strings.NewReader("%PDF-1.4 body")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rc, err := s.Open(ctx, "doc-1_po.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4 body" {
		t.Fatalf("content = %q", data)
	}
}

func TestOpenMissingKey(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := s.Open(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
