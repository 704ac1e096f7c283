package config

import "time"

// Configfile represents the structure of the lantern.yaml configuration file.
// Zero values leave the built-in defaults untouched.
type Configfile struct {
	Origin       string          `yaml:"origin"`
	Listen       string          `yaml:"listen"`
	Version      string          `yaml:"version"`
	DataDir      string          `yaml:"dataDir"`
	SkipWaiting  *bool           `yaml:"skipWaiting"`
	Shell        ShellDTO        `yaml:"shell"`
	Content      TierDTO         `yaml:"content"`
	Model        TierDTO         `yaml:"model"`
	Passthrough  []string        `yaml:"passthrough"`
	Connectivity ConnectivityDTO `yaml:"connectivity"`
	Sync         SyncDTO         `yaml:"sync"`
	Telemetry    TelemetryDTO    `yaml:"telemetry"`
}

// ShellDTO configures the static shell tier.
type ShellDTO struct {
	Precache []string      `yaml:"precache"`
	Fallback string        `yaml:"fallback"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TierDTO configures a prefix-matched tier.
type TierDTO struct {
	Prefix  string        `yaml:"prefix"`
	Timeout time.Duration `yaml:"timeout"`
}

// ConnectivityDTO selects the connectivity source.
type ConnectivityDTO struct {
	Source     string `yaml:"source"`
	StatusFile string `yaml:"statusFile"`
	Initial    *bool  `yaml:"initial"`
}

// SyncDTO configures remote delivery.
type SyncDTO struct {
	Endpoint string        `yaml:"endpoint"`
	Function string        `yaml:"function"`
	Token    string        `yaml:"token"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TelemetryDTO configures trace export.
type TelemetryDTO struct {
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// envOverrides lists the LANTERN_* variables. Fields are pre-filled from the
// file configuration, so unset variables keep the file value.
type envOverrides struct {
	Origin             string        `env:"LANTERN_ORIGIN"`
	Listen             string        `env:"LANTERN_LISTEN"`
	Version            string        `env:"LANTERN_VERSION"`
	DataDir            string        `env:"LANTERN_DATA_DIR"`
	SkipWaiting        bool          `env:"LANTERN_SKIP_WAITING"`
	PassthroughHosts   []string      `env:"LANTERN_PASSTHROUGH_HOSTS"`
	ContentTimeout     time.Duration `env:"LANTERN_CONTENT_TIMEOUT"`
	ModelTimeout       time.Duration `env:"LANTERN_MODEL_TIMEOUT"`
	ConnectivitySource string        `env:"LANTERN_CONNECTIVITY_SOURCE"`
	StatusFile         string        `env:"LANTERN_STATUS_FILE"`
	SyncEndpoint       string        `env:"LANTERN_SYNC_ENDPOINT"`
	SyncFunction       string        `env:"LANTERN_SYNC_FUNCTION"`
	SyncToken          string        `env:"LANTERN_SYNC_TOKEN"`
	TelemetryEndpoint  string        `env:"LANTERN_OTLP_ENDPOINT"`
}
