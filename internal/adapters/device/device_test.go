package device_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lantern/internal/adapters/device"
	"go.trai.ch/lantern/internal/adapters/kv"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestParseMemTotal(t *testing.T) {
	meminfo := "MemFree:         1024 kB\nMemTotal:       8388608 kB\n"
	assert.Equal(t, 8192, device.ParseMemTotal(strings.NewReader(meminfo)))
	assert.Zero(t, device.ParseMemTotal(strings.NewReader("garbage")))
}

func TestLanguages(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"posix locale", []string{"", "", "C"}, nil},
		{"lang with encoding", []string{"", "", "fr_FR.UTF-8"}, []string{"fr"}},
		{"language list first", []string{"sw_KE:en_GB", "", "en_US.UTF-8"}, []string{"sw", "en"}},
		{"modifier", []string{"", "de_DE@euro", ""}, []string{"de"}},
		{"invalid", []string{"", "", "not a locale"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, device.Languages(tt.values...))
		})
	}
}

func TestHostProbe_Probe(t *testing.T) {
	dir := t.TempDir()
	meminfo := filepath.Join(dir, "meminfo")
	require.NoError(t, os.WriteFile(meminfo, []byte("MemTotal: 2097152 kB\n"), domain.FilePerm))

	env := map[string]string{"LANG": "sw_TZ.UTF-8"}
	probe := device.NewHostProbeWith(filepath.Join(dir, "missing", "data"), meminfo, func(k string) string { return env[k] })

	caps := probe.Probe(context.Background())
	assert.Equal(t, 2048, caps.RAMMb)
	assert.Positive(t, caps.StorageMb)
	assert.Equal(t, []string{"sw"}, caps.PreferredLanguages)
}

func TestHostProbe_MissingMeminfo(t *testing.T) {
	probe := device.NewHostProbeWith(t.TempDir(), filepath.Join(t.TempDir(), "nope"), func(string) string { return "" })
	assert.Zero(t, probe.Probe(context.Background()).RAMMb)
}

func TestService_ProfileDefaultsAndStableID(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := mocks.NewMockCapabilityProbe(ctrl)
	probe.EXPECT().Probe(gomock.Any()).Return(domain.Capabilities{}).Times(2)
	state := mocks.NewMockConnectivityState(ctrl)
	state.EXPECT().Online().Return(false).Times(2)

	store := kv.NewMemory(0)
	svc := device.NewService(store, probe, mocks.NewMockLogger(ctrl), state)

	first, err := svc.Profile(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, first.DeviceID)
	assert.Equal(t, domain.DefaultRAMMb, first.RAMMb)
	assert.Equal(t, domain.DefaultStorageMb, first.StorageMb)
	assert.Equal(t, "offline", first.NetworkStatus)
	assert.Equal(t, []string{domain.DefaultLanguage}, first.PreferredLanguages)

	second, err := svc.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.DeviceID, second.DeviceID)
}

func TestService_CorruptIDIsReplaced(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := mocks.NewMockCapabilityProbe(ctrl)
	probe.EXPECT().Probe(gomock.Any()).Return(domain.Capabilities{RAMMb: 1024})
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("device id record is corrupt, generating a new one", "key", domain.DeviceIDKey)

	store := kv.NewMemory(0)
	require.NoError(t, store.Set(context.Background(), domain.DeviceIDKey, []byte("{not json")))

	profile, err := device.NewService(store, probe, log, nil).Profile(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, profile.DeviceID)
	assert.Equal(t, 1024, profile.RAMMb)
	assert.Equal(t, domain.DefaultNetworkStatus, profile.NetworkStatus)

	stored, ok, err := kv.GetJSON[string](context.Background(), store, domain.DeviceIDKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, profile.DeviceID, stored)
}
