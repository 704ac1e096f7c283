// Package domain contains the core types of the offline cache and sync edge.
package domain

import (
	"net/http"
	"strings"
	"time"
)

// Tier is an independent cache namespace with its own serving strategy.
type Tier uint8

const (
	// TierPassthrough bypasses every cache.
	TierPassthrough Tier = iota
	// TierShell holds the static application shell (cache-first).
	TierShell
	// TierContent holds content API responses (stale-while-revalidate).
	TierContent
	// TierModel holds large immutable model downloads (cache-first, no refresh).
	TierModel
)

// CachedTiers lists the tiers that own a cache namespace.
var CachedTiers = []Tier{TierShell, TierContent, TierModel}

// String returns the lowercase name of the tier.
func (t Tier) String() string {
	switch t {
	case TierShell:
		return "shell"
	case TierContent:
		return "content"
	case TierModel:
		return "model"
	default:
		return "passthrough"
	}
}

// ParseTier parses a tier name as produced by String.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shell":
		return TierShell, nil
	case "content":
		return TierContent, nil
	case "model", "models":
		return TierModel, nil
	case "passthrough":
		return TierPassthrough, nil
	default:
		return TierPassthrough, ErrInvalidTier
	}
}

// Namespace returns the versioned cache namespace name for the tier.
// Passthrough has no namespace and returns an empty string.
func (t Tier) Namespace(version string) string {
	switch t {
	case TierShell:
		return NamespacePrefix + "shell-" + version
	case TierContent:
		return NamespacePrefix + "content-" + version
	case TierModel:
		return NamespacePrefix + "models-" + version
	default:
		return ""
	}
}

// NamespacePrefix prefixes every cache namespace owned by lantern.
const NamespacePrefix = "lantern-"

// Whitelist returns the namespaces that survive activation for the given version.
func Whitelist(version string) []string {
	names := make([]string, 0, len(CachedTiers))
	for _, t := range CachedTiers {
		names = append(names, t.Namespace(version))
	}
	return names
}

// CacheEntry is a stored network response.
type CacheEntry struct {
	Key      string      `json:"key"`
	Payload  []byte      `json:"payload"`
	StoredAt time.Time   `json:"storedAt"`
	Tier     Tier        `json:"tier"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header,omitempty"`
}

// Response converts the entry back into a response served from cache.
func (e *CacheEntry) Response() *Response {
	return &Response{
		Status:    e.Status,
		Header:    e.Header.Clone(),
		Body:      e.Payload,
		Type:      ResponseBasic,
		FromCache: true,
	}
}
