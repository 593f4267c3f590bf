package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/yungbote/mentorship-backend/internal/platform/gcp"
)

// memBucket is an in-memory gcp.BucketService.
type memBucket struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string][]byte{}}
}

func (b *memBucket) UploadFile(_ context.Context, cat gcp.BucketCategory, key string, r io.Reader) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[string(cat)+"/"+key] = raw
	return nil
}

func (b *memBucket) DeleteFile(_ context.Context, cat gcp.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, string(cat)+"/"+key)
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *memBucket) DownloadFile(_ context.Context, cat gcp.BucketCategory, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.objects[string(cat)+"/"+key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (b *memBucket) GetPublicURL(cat gcp.BucketCategory, key string) string {
	return "https://cdn.example.com/" + string(cat) + "/" + key
}

func (b *memBucket) Close() error { return nil }

func (b *memBucket) object(cat gcp.BucketCategory, key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.objects[string(cat)+"/"+key]
	return raw, ok
}
