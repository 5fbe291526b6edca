package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestImageKey(t *testing.T) {
	if got := ImageKey("b1", "p1", "mug.png"); got != "b1/p1/mug.png" {
		t.Errorf("Expected b1/p1/mug.png, got %s", got)
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"a/b/mug.png":  "image/png",
		"a/b/mug.PNG":  "image/png",
		"a/b/mug.jpeg": "image/jpeg",
		"a/b/mug.jpg":  "image/jpeg",
		"a/b/mug":      "application/octet-stream",
		"a/b/mug.zzz9": "application/octet-stream",
	}

	for key, want := range tests {
		if got := ContentTypeFor(key); got != want {
			t.Errorf("ContentTypeFor(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestValidateKey(t *testing.T) {
	for _, key := range []string{"", "/abs", "a/../b"} {
		if err := validateKey(key); err == nil {
			t.Errorf("Expected %q to be rejected", key)
		}
	}
	if err := validateKey("b1/p1/mug.png"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// exerciseStorage runs the shared contract against an implementation
func exerciseStorage(t *testing.T, storage FileStorage) {
	t.Helper()
	ctx := context.Background()
	key := "brand/product/mug.png"

	exists, err := storage.Exists(ctx, key)
	if err != nil || exists {
		t.Fatalf("Expected missing file, got %v, %v", exists, err)
	}

	if err := storage.Store(ctx, key, []byte("image"), nil); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	data, err := storage.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if !bytes.Equal(data, []byte("image")) {
		t.Errorf("Expected stored bytes, got %q", data)
	}

	if err := storage.Store(ctx, key, []byte("image2"), nil); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	if err := storage.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := storage.Retrieve(ctx, key); !IsNotFound(err) {
		t.Errorf("Expected not found after delete, got %v", err)
	}

	if err := storage.Store(ctx, "../escape", []byte("x"), nil); err == nil {
		t.Error("Expected invalid key error")
	}
}

func TestLocalFileStorage(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFileStorage failed: %v", err)
	}
	exerciseStorage(t, storage)
}

func TestMockFileStorage(t *testing.T) {
	storage := NewMockFileStorage()
	exerciseStorage(t, storage)

	if err := storage.Store(context.Background(), "a/b/c.jpg", []byte("x"), nil); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if ct := storage.ContentType("a/b/c.jpg"); ct != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", ct)
	}
	if storage.FileCount() != 1 {
		t.Errorf("Expected 1 file, got %d", storage.FileCount())
	}
}

func TestFactory(t *testing.T) {
	factory := NewFactory(nil, nil)
	ctx := context.Background()

	mock, err := factory.Create(ctx, &StorageConfig{Type: "mock"})
	if err != nil {
		t.Fatalf("Create mock failed: %v", err)
	}
	if _, ok := mock.(*MockFileStorage); !ok {
		t.Errorf("Expected *MockFileStorage, got %T", mock)
	}

	local, err := NewFactory(fastRetry(), nil).Create(ctx, &StorageConfig{Type: "LOCAL", BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("Create local failed: %v", err)
	}
	if _, ok := local.(*RetryableFileStorage); !ok {
		t.Errorf("Expected retry wrapper, got %T", local)
	}

	if _, err := factory.Create(ctx, &StorageConfig{Type: "gcs"}); err == nil {
		t.Error("Expected unsupported type error")
	}
	if _, err := factory.Create(ctx, nil); err == nil {
		t.Error("Expected error for nil config")
	}
}
