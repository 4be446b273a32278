package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Persisted keys. Values are JSON text.
const (
	KeyCurrentUser      = "currentUser"
	KeyMyCourses        = "myCourses"
	KeyAvailableCourses = "availableCourses"
)

// Storage is a string key/value backend shaped like browser local storage.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by backends with a remote dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GetJSON decodes the value at key into out. ok is false when the key is absent.
func GetJSON(ctx context.Context, s Storage, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, s Storage, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(b))
}

// Ping checks backends that implement Pinger and succeeds for the rest.
func Ping(ctx context.Context, s Storage) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
