package domain

import (
	"slices"
	"strconv"
	"strings"
)

// SettingsKeyPrefix is the PKV namespace for user-configurable offline settings.
const SettingsKeyPrefix = "settings:"

// Setting names, stored as SettingsKeyPrefix + name.
const (
	SettingStoragePath             = "storagePath"
	SettingMaxStorageMb            = "maxStorageMb"
	SettingAutoSync                = "autoSync"
	SettingNetworkQualityThreshold = "networkQualityThreshold"
	SettingModelSize               = "modelSize"
	SettingPreferredLanguages      = "preferredLanguages"
)

// SettingNames lists every known setting in display order.
var SettingNames = []string{
	SettingStoragePath,
	SettingMaxStorageMb,
	SettingAutoSync,
	SettingNetworkQualityThreshold,
	SettingModelSize,
	SettingPreferredLanguages,
}

// Settings are the user-configurable offline settings.
type Settings struct {
	StoragePath             string   `json:"storagePath"`
	MaxStorageMb            int      `json:"maxStorageMb"`
	AutoSync                bool     `json:"autoSync"`
	NetworkQualityThreshold string   `json:"networkQualityThreshold"`
	ModelSize               string   `json:"modelSize"`
	PreferredLanguages      []string `json:"preferredLanguages"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		StoragePath:             DefaultLanternPath(),
		MaxStorageMb:            1024,
		AutoSync:                true,
		NetworkQualityThreshold: "2g",
		ModelSize:               "small",
		PreferredLanguages:      []string{DefaultLanguage},
	}
}

// SettingKey returns the PKV key for a setting name.
func SettingKey(name string) string {
	return SettingsKeyPrefix + name
}

// Get returns the display value of a named setting.
func (s Settings) Get(name string) (string, error) {
	switch name {
	case SettingStoragePath:
		return s.StoragePath, nil
	case SettingMaxStorageMb:
		return strconv.Itoa(s.MaxStorageMb), nil
	case SettingAutoSync:
		return strconv.FormatBool(s.AutoSync), nil
	case SettingNetworkQualityThreshold:
		return s.NetworkQualityThreshold, nil
	case SettingModelSize:
		return s.ModelSize, nil
	case SettingPreferredLanguages:
		return strings.Join(s.PreferredLanguages, ","), nil
	default:
		return "", ErrUnknownSetting
	}
}

// Set parses value and assigns it to the named setting.
func (s *Settings) Set(name, value string) error {
	value = strings.TrimSpace(value)
	switch name {
	case SettingStoragePath:
		if value == "" {
			return ErrInvalidSetting
		}
		s.StoragePath = value
	case SettingMaxStorageMb:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return ErrInvalidSetting
		}
		s.MaxStorageMb = n
	case SettingAutoSync:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return ErrInvalidSetting
		}
		s.AutoSync = b
	case SettingNetworkQualityThreshold:
		if !slices.Contains([]string{"slow-2g", "2g", "3g", "4g"}, value) {
			return ErrInvalidSetting
		}
		s.NetworkQualityThreshold = value
	case SettingModelSize:
		if !slices.Contains([]string{"small", "medium", "large"}, value) {
			return ErrInvalidSetting
		}
		s.ModelSize = value
	case SettingPreferredLanguages:
		var langs []string
		for part := range strings.SplitSeq(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				langs = append(langs, part)
			}
		}
		if len(langs) == 0 {
			return ErrInvalidSetting
		}
		s.PreferredLanguages = langs
	default:
		return ErrUnknownSetting
	}
	return nil
}
