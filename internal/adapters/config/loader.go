// Package config provides the configuration loader for lantern.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file and LANTERN_* environment variables.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the configuration: defaults, then the nearest lantern.yaml
// at or above cwd, then environment overrides.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	base := cwd

	if configPath, ok := findConfiguration(cwd); ok {
		var file Configfile
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
		if err := applyFile(cfg, &file); err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
		base = filepath.Dir(configPath)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(base, cfg.DataDir)
	}
	if cfg.Connectivity.StatusFile == "" {
		cfg.Connectivity.StatusFile = domain.StatusPath(cfg.DataDir)
	}

	switch cfg.Connectivity.Source {
	case domain.SourceBridge, domain.SourceFile:
	default:
		if l.Logger != nil {
			l.Logger.Warn("unknown connectivity source, using bridge", "source", cfg.Connectivity.Source)
		}
		cfg.Connectivity.Source = domain.SourceBridge
	}

	return cfg, nil
}

// findConfiguration walks up from cwd looking for lantern.yaml.
func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func applyFile(cfg *domain.Config, file *Configfile) error {
	if file.Origin != "" {
		origin, err := parseOrigin(file.Origin)
		if err != nil {
			return err
		}
		cfg.Origin = origin
	}
	setString(&cfg.Listen, file.Listen)
	setString(&cfg.Version, file.Version)
	setString(&cfg.DataDir, file.DataDir)
	if file.SkipWaiting != nil {
		cfg.SkipWaiting = *file.SkipWaiting
	}

	if file.Shell.Precache != nil {
		cfg.Shell.Precache = file.Shell.Precache
	}
	setString(&cfg.Shell.FallbackPath, file.Shell.Fallback)
	if file.Shell.Timeout > 0 {
		cfg.Shell.Timeout = file.Shell.Timeout
	}

	setString(&cfg.Content.Prefix, file.Content.Prefix)
	if file.Content.Timeout > 0 {
		cfg.Content.Timeout = file.Content.Timeout
	}
	setString(&cfg.Model.Prefix, file.Model.Prefix)
	if file.Model.Timeout > 0 {
		cfg.Model.Timeout = file.Model.Timeout
	}

	if file.Passthrough != nil {
		cfg.PassthroughHosts = file.Passthrough
	}

	setString(&cfg.Connectivity.Source, file.Connectivity.Source)
	setString(&cfg.Connectivity.StatusFile, file.Connectivity.StatusFile)
	if file.Connectivity.Initial != nil {
		cfg.Connectivity.Initial = *file.Connectivity.Initial
	}

	setString(&cfg.Sync.Endpoint, file.Sync.Endpoint)
	setString(&cfg.Sync.Function, file.Sync.Function)
	setString(&cfg.Sync.Token, file.Sync.Token)
	if file.Sync.Timeout > 0 {
		cfg.Sync.Timeout = file.Sync.Timeout
	}

	setString(&cfg.Telemetry.Endpoint, file.Telemetry.Endpoint)
	cfg.Telemetry.Insecure = cfg.Telemetry.Insecure || file.Telemetry.Insecure
	return nil
}

func applyEnv(cfg *domain.Config) error {
	overrides := envOverrides{
		Origin:             cfg.Origin.String(),
		Listen:             cfg.Listen,
		Version:            cfg.Version,
		DataDir:            cfg.DataDir,
		SkipWaiting:        cfg.SkipWaiting,
		PassthroughHosts:   cfg.PassthroughHosts,
		ContentTimeout:     cfg.Content.Timeout,
		ModelTimeout:       cfg.Model.Timeout,
		ConnectivitySource: cfg.Connectivity.Source,
		StatusFile:         cfg.Connectivity.StatusFile,
		SyncEndpoint:       cfg.Sync.Endpoint,
		SyncFunction:       cfg.Sync.Function,
		SyncToken:          cfg.Sync.Token,
		TelemetryEndpoint:  cfg.Telemetry.Endpoint,
	}
	if err := env.Parse(&overrides); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	origin, err := parseOrigin(overrides.Origin)
	if err != nil {
		return err
	}
	cfg.Origin = origin
	cfg.Listen = overrides.Listen
	cfg.Version = overrides.Version
	cfg.DataDir = overrides.DataDir
	cfg.SkipWaiting = overrides.SkipWaiting
	cfg.PassthroughHosts = overrides.PassthroughHosts
	cfg.Content.Timeout = overrides.ContentTimeout
	cfg.Model.Timeout = overrides.ModelTimeout
	cfg.Connectivity.Source = overrides.ConnectivitySource
	cfg.Connectivity.StatusFile = overrides.StatusFile
	cfg.Sync.Endpoint = overrides.SyncEndpoint
	cfg.Sync.Function = overrides.SyncFunction
	cfg.Sync.Token = overrides.SyncToken
	cfg.Telemetry.Endpoint = overrides.TelemetryEndpoint
	return nil
}

// parseOrigin accepts an absolute http(s) URL and reduces it to scheme and host.
func parseOrigin(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidOrigin.Error()), "origin", raw)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, zerr.With(domain.ErrInvalidOrigin, "origin", raw)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from the working directory
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
