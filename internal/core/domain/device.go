package domain

// DeviceIDKey is the PKV key of the generated device identifier.
const DeviceIDKey = "device:id"

// Conservative defaults used when the host cannot report a capability.
const (
	DefaultRAMMb         = 4096
	DefaultStorageMb     = 5120
	DefaultNetworkStatus = "unknown"
	DefaultLanguage      = "en"
)

// DeviceProfile is a best-effort description of the host, used for sizing decisions.
type DeviceProfile struct {
	DeviceID           string   `json:"deviceId"`
	RAMMb              int      `json:"ramMb"`
	StorageMb          int      `json:"storageMb"`
	NetworkStatus      string   `json:"networkStatus"`
	PreferredLanguages []string `json:"preferredLanguages"`
}

// Capabilities is the raw answer of a device capability query.
// Zero values mean the field could not be determined.
type Capabilities struct {
	RAMMb              int
	StorageMb          int
	NetworkStatus      string
	PreferredLanguages []string
}

// NewDeviceProfile builds a profile from caps, substituting defaults for missing fields.
func NewDeviceProfile(id string, caps Capabilities) DeviceProfile {
	p := DeviceProfile{
		DeviceID:           id,
		RAMMb:              caps.RAMMb,
		StorageMb:          caps.StorageMb,
		NetworkStatus:      caps.NetworkStatus,
		PreferredLanguages: caps.PreferredLanguages,
	}
	if p.RAMMb <= 0 {
		p.RAMMb = DefaultRAMMb
	}
	if p.StorageMb <= 0 {
		p.StorageMb = DefaultStorageMb
	}
	if p.NetworkStatus == "" {
		p.NetworkStatus = DefaultNetworkStatus
	}
	if len(p.PreferredLanguages) == 0 {
		p.PreferredLanguages = []string{DefaultLanguage}
	}
	return p
}
