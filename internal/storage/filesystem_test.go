package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestFileStoreWriteReadRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()

	key, err := store.Write(ctx, "uploads/audio/a.mp3", []byte("bytes"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "uploads/audio/a.mp3" {
		t.Fatalf("key = %q", key)
	}

	data, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !bytes.Equal(data, []byte("bytes")) {
		t.Fatalf("Read = %q", data)
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := store.Read(ctx, key); err == nil {
		t.Fatal("expected read error after remove")
	}
	// Removing again must not error.
	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("second Remove returned error: %v", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Write(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}
