// Package blob provides the screenshot document store: an opaque
// key -> (base64 payload, content type) store backed by Redis. Relational
// rows reference documents here by id; the reference is weak and callers
// are expected to degrade gracefully when a document is missing.
package blob

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a document id does not resolve.
var ErrNotFound = errors.New("screenshot not found")

const keyPrefix = "screenshot:"

// Document is a stored screenshot: the base64-encoded payload plus the
// content type it was uploaded with.
type Document struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type"`
}

// Store is the document store contract used by the post and reply services.
type Store interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Get(ctx context.Context, id string) (*Document, error)
	Delete(ctx context.Context, id string) error
}

// RedisStore implements Store on a Redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(id string) string {
	return keyPrefix + id
}

// Put stores the payload under a fresh uuid key and returns the key.
func (s *RedisStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	id := uuid.NewString()
	doc := Document{
		Data:        base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal screenshot document: %w", err)
	}
	if err := s.client.Set(ctx, key(id), b, 0).Err(); err != nil {
		return "", fmt.Errorf("store screenshot document: %w", err)
	}
	return id, nil
}

// Get returns the document for id, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (*Document, error) {
	raw, err := s.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch screenshot document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode screenshot document: %w", err)
	}
	return &doc, nil
}

// Delete removes the document for id. Deleting a missing document returns
// ErrNotFound so callers can tell compensation no-ops apart from successes.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete screenshot document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
