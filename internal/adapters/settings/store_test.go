package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lantern/internal/adapters/kv"
	"go.trai.ch/lantern/internal/adapters/settings"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestStore_LoadDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := settings.NewStore(kv.NewMemory(0), mocks.NewMockLogger(ctrl))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)
}

func TestStore_SetPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := kv.NewMemory(0)
	store := settings.NewStore(mem, mocks.NewMockLogger(ctrl))
	ctx := context.Background()

	_, err := store.Set(ctx, domain.SettingAutoSync, "false")
	require.NoError(t, err)
	_, err = store.Set(ctx, domain.SettingPreferredLanguages, "sw, en")
	require.NoError(t, err)

	got, err := settings.NewStore(mem, mocks.NewMockLogger(ctrl)).Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.AutoSync)
	assert.Equal(t, []string{"sw", "en"}, got.PreferredLanguages)
	assert.Equal(t, 1024, got.MaxStorageMb)

	raw, ok, err := mem.Get(ctx, domain.SettingKey(domain.SettingAutoSync))
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, "false", string(raw))
}

func TestStore_SetRejectsInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := settings.NewStore(kv.NewMemory(0), mocks.NewMockLogger(ctrl))

	_, err := store.Set(context.Background(), domain.SettingModelSize, "huge")
	require.ErrorContains(t, err, domain.ErrInvalidSetting.Error())

	_, err = store.Set(context.Background(), "colour", "blue")
	require.ErrorContains(t, err, domain.ErrUnknownSetting.Error())
}

func TestStore_CorruptRecordKeepsDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("ignoring corrupt setting", "setting", domain.SettingMaxStorageMb)

	mem := kv.NewMemory(0)
	require.NoError(t, mem.Set(context.Background(), domain.SettingKey(domain.SettingMaxStorageMb), []byte(`"lots"`)))

	got, err := settings.NewStore(mem, log).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1024, got.MaxStorageMb)
}

func TestStore_Reset(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := kv.NewMemory(0)
	store := settings.NewStore(mem, mocks.NewMockLogger(ctrl))
	ctx := context.Background()

	_, err := store.Set(ctx, domain.SettingMaxStorageMb, "10")
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1024, got.MaxStorageMb)
}
