package domain

import "path/filepath"

const (
	// LanternDirName is the name of the local data directory.
	LanternDirName = ".lantern"
	// CacheDirName is the name of the tier cache directory.
	CacheDirName = "cache"
	// StoreFileName is the name of the persistent key-value database.
	StoreFileName = "offline.db"
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "lantern.yaml"
	// StatusFileName is the name of the connectivity status file.
	StatusFileName = "network-status"
	// BridgePath is the HTTP path of the worker-client bridge endpoint.
	BridgePath = "/_lantern/bridge"
	// StatusEndpoint is the HTTP path reporting the edge's state.
	StatusEndpoint = "/_lantern/status"
	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750
	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultLanternPath returns the default root directory for lantern data.
func DefaultLanternPath() string {
	return LanternDirName
}

// CachePath returns the tier cache directory below root.
func CachePath(root string) string {
	return filepath.Join(root, CacheDirName)
}

// StorePath returns the key-value database path below root.
func StorePath(root string) string {
	return filepath.Join(root, StoreFileName)
}

// StatusPath returns the connectivity status file path below root.
func StatusPath(root string) string {
	return filepath.Join(root, StatusFileName)
}
