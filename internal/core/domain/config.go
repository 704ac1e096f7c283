package domain

import (
	"net/url"
	"time"
)

// Config is the resolved configuration of a lantern edge.
type Config struct {
	// Origin is the application origin the worker controls.
	Origin *url.URL
	// Listen is the address the edge serves on.
	Listen string
	// Version names the cache namespaces of this worker generation.
	Version string
	// DataDir holds the key-value store, the tier caches and the status file.
	DataDir string
	// SkipWaiting activates the worker right after install.
	SkipWaiting bool

	Shell   ShellConfig
	Content ContentConfig
	Model   ModelConfig

	// PassthroughHosts are URL substrings of third-party APIs that are never cached.
	PassthroughHosts []string

	Connectivity ConnectivityConfig
	Sync         SyncConfig
	Telemetry    TelemetryConfig
}

// ShellConfig configures the static shell tier.
type ShellConfig struct {
	Precache     []string
	FallbackPath string
	Timeout      time.Duration
}

// ContentConfig configures the content tier.
type ContentConfig struct {
	Prefix  string
	Timeout time.Duration
}

// ModelConfig configures the model tier.
type ModelConfig struct {
	Prefix  string
	Timeout time.Duration
}

// ConnectivityConfig selects the platform connectivity signal.
type ConnectivityConfig struct {
	// Source is "bridge" (pages report connectivity) or "file" (status file written by the host).
	Source     string
	StatusFile string
	// Initial is the state assumed by the bridge source until a page reports.
	Initial bool
}

// SyncConfig configures remote delivery of queued items.
type SyncConfig struct {
	Endpoint string
	Function string
	Token    string
	Timeout  time.Duration
}

// TelemetryConfig configures trace export.
type TelemetryConfig struct {
	Endpoint string
	Insecure bool
}

// Connectivity sources.
const (
	SourceBridge = "bridge"
	SourceFile   = "file"
)

// DefaultConfig returns the configuration used when no file or environment overrides exist.
func DefaultConfig() *Config {
	origin, _ := url.Parse("http://localhost:5173")
	return &Config{
		Origin:  origin,
		Listen:  "127.0.0.1:8787",
		Version: "v1",
		DataDir: DefaultLanternPath(),
		Shell: ShellConfig{
			Precache:     []string{"/", "/index.html", "/manifest.json"},
			FallbackPath: "/",
			Timeout:      30 * time.Second,
		},
		Content: ContentConfig{
			Prefix:  "/api/content/",
			Timeout: 15 * time.Second,
		},
		Model: ModelConfig{
			Prefix:  "/api/ai-models/",
			Timeout: 10 * time.Minute,
		},
		PassthroughHosts: []string{"supabase.co", "api.openai.com", "generativelanguage.googleapis.com"},
		Connectivity: ConnectivityConfig{
			Source:  SourceBridge,
			Initial: true,
		},
		Sync: SyncConfig{
			Function: "sync-offline-data",
			Timeout:  30 * time.Second,
		},
	}
}
