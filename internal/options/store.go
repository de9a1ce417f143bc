// Package options is site-wide key/value storage: named string values that
// any part of the application can read with a fallback default.
package options

import (
	"context"
	"strconv"
)

// Store is the host's options table.
type Store interface {
	// Get returns the stored value, or def when name is absent.
	Get(ctx context.Context, name, def string) (string, error)
	// Add creates name with value unless it already exists. An existing value is kept.
	Add(ctx context.Context, name, value string) error
	// Set creates or overwrites name.
	Set(ctx context.Context, name, value string) error
}

// GetInt reads name as a decimal integer. Absent or non-numeric values yield def.
func GetInt(ctx context.Context, s Store, name string, def int64) (int64, error) {
	raw, err := s.Get(ctx, name, strconv.FormatInt(def, 10))
	if err != nil {
		return def, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def, nil
	}
	return n, nil
}

func AddInt(ctx context.Context, s Store, name string, value int64) error {
	return s.Add(ctx, name, strconv.FormatInt(value, 10))
}

func SetInt(ctx context.Context, s Store, name string, value int64) error {
	return s.Set(ctx, name, strconv.FormatInt(value, 10))
}
