package domain

import "go.trai.ch/zerr"

var (
	// ErrStorageFull is returned when the persistent store rejects a write because the medium is full.
	ErrStorageFull = zerr.New("storage full")

	// ErrNetworkUnavailable is returned when a fetch could not be attempted or completed.
	ErrNetworkUnavailable = zerr.New("network unavailable")

	// ErrSyncDeliveryFailed is returned when a queued item could not be delivered during a flush.
	ErrSyncDeliveryFailed = zerr.New("sync delivery failed, will retry when you're back online")

	// ErrCacheWriteSkipped is reported when a response was not eligible for caching.
	ErrCacheWriteSkipped = zerr.New("cache write skipped")

	// ErrStoreOpenFailed is returned when the key-value store cannot be opened.
	ErrStoreOpenFailed = zerr.New("failed to open offline store")

	// ErrStoreReadFailed is returned when a record cannot be read from the key-value store.
	ErrStoreReadFailed = zerr.New("failed to read offline record")

	// ErrStoreWriteFailed is returned when a record cannot be written to the key-value store.
	ErrStoreWriteFailed = zerr.New("failed to write offline record")

	// ErrStoreMarshalFailed is returned when a record cannot be encoded as JSON.
	ErrStoreMarshalFailed = zerr.New("failed to marshal offline record")

	// ErrCorruptRecord is returned when a stored record cannot be decoded. Callers treat it as absent.
	ErrCorruptRecord = zerr.New("corrupt offline record")

	// ErrCacheReadFailed is returned when a cache entry cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cache entry")

	// ErrCacheWriteFailed is returned when a cache entry cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write cache entry")

	// ErrCacheDeleteFailed is returned when a cache namespace cannot be removed.
	ErrCacheDeleteFailed = zerr.New("failed to delete cache namespace")

	// ErrInvalidTier is returned when a tier name cannot be parsed.
	ErrInvalidTier = zerr.New("invalid cache tier, expected shell, content, model or passthrough")

	// ErrInvalidQueueID is returned when a queue item has an empty id.
	ErrInvalidQueueID = zerr.New("queue item id must not be empty")

	// ErrInvalidPayload is returned when a payload is not valid JSON.
	ErrInvalidPayload = zerr.New("payload must be valid JSON")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidOrigin is returned when the configured app origin is not an absolute URL.
	ErrInvalidOrigin = zerr.New("origin must be an absolute http(s) URL")

	// ErrUnknownSetting is returned when a settings key does not exist.
	ErrUnknownSetting = zerr.New("unknown setting")

	// ErrInvalidSetting is returned when a settings value cannot be parsed.
	ErrInvalidSetting = zerr.New("invalid setting value")

	// ErrUnknownMessage is returned when the bridge receives a message kind it has no handler for.
	ErrUnknownMessage = zerr.New("unknown bridge message")

	// ErrInvalidMessage is returned when a bridge message payload cannot be decoded.
	ErrInvalidMessage = zerr.New("invalid bridge message payload")

	// ErrNotCacheable is returned when a download targets a resource that is never cached.
	ErrNotCacheable = zerr.New("resource cannot be stored for offline use")

	// ErrDownloadFailed is returned when a requested download did not complete.
	ErrDownloadFailed = zerr.New("download failed, will retry when you're back online")

	// ErrRemoteRejected is returned when the sync backend answers a delivery with a non-2xx status.
	ErrRemoteRejected = zerr.New("remote rejected queued item")

	// ErrSyncEndpointMissing is returned when delivery is attempted without a configured backend.
	ErrSyncEndpointMissing = zerr.New("sync endpoint is not configured")
)
