package kv

import (
	"context"
	"encoding/json"
	"errors"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
)

// GetJSON reads and decodes the record under key.
// A record that fails to decode is reported as absent together with an error
// matching domain.ErrCorruptRecord, so callers can log it and carry on.
func GetJSON[T any](ctx context.Context, s ports.KVStore, key string) (T, bool, error) {
	var zero T

	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, false, errors.Join(domain.ErrCorruptRecord, zerr.With(zerr.Wrap(err, "decode"), "key", key))
	}
	return value, true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, s ports.KVStore, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), "key", key)
	}
	return s.Set(ctx, key, data)
}
