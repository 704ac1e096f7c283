// Package settings persists the user-configurable offline settings.
package settings

import (
	"context"
	"encoding/json"
	"slices"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store reads and writes settings, one key-value record per setting.
type Store struct {
	kv     ports.KVStore
	logger ports.Logger
}

// NewStore creates a settings store on top of kv.
func NewStore(kv ports.KVStore, logger ports.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

func fields(s *domain.Settings) map[string]any {
	return map[string]any{
		domain.SettingStoragePath:             &s.StoragePath,
		domain.SettingMaxStorageMb:            &s.MaxStorageMb,
		domain.SettingAutoSync:                &s.AutoSync,
		domain.SettingNetworkQualityThreshold: &s.NetworkQualityThreshold,
		domain.SettingModelSize:               &s.ModelSize,
		domain.SettingPreferredLanguages:      &s.PreferredLanguages,
	}
}

// Load returns the stored settings. Missing and corrupt records keep their default.
func (s *Store) Load(ctx context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	for _, name := range domain.SettingNames {
		data, ok, err := s.kv.Get(ctx, domain.SettingKey(name))
		if err != nil {
			return settings, err
		}
		if !ok {
			continue
		}

		next := settings
		next.PreferredLanguages = slices.Clone(settings.PreferredLanguages)
		if err := json.Unmarshal(data, fields(&next)[name]); err != nil {
			s.logger.Warn("ignoring corrupt setting", "setting", name)
			continue
		}
		settings = next
	}
	return settings, nil
}

// Set parses value, validates it and persists the named setting.
func (s *Store) Set(ctx context.Context, name, value string) (domain.Settings, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return settings, err
	}

	if err := settings.Set(name, value); err != nil {
		return settings, zerr.With(zerr.With(err, "setting", name), "value", value)
	}

	data, err := json.Marshal(fields(&settings)[name])
	if err != nil {
		return settings, zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	if err := s.kv.Set(ctx, domain.SettingKey(name), data); err != nil {
		return settings, err
	}
	return settings, nil
}

// Reset removes every stored setting.
func (s *Store) Reset(ctx context.Context) error {
	for _, name := range domain.SettingNames {
		if err := s.kv.Delete(ctx, domain.SettingKey(name)); err != nil {
			return err
		}
	}
	return nil
}
