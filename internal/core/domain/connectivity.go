package domain

// ConnectivityState is the process-wide online/offline state.
type ConnectivityState uint8

const (
	// Offline means no network is reachable.
	Offline ConnectivityState = iota
	// Online means the platform reports a usable network.
	Online
)

// String returns "online" or "offline".
func (s ConnectivityState) String() string {
	if s == Online {
		return "online"
	}
	return "offline"
}

// StateOf converts a platform online signal to a ConnectivityState.
func StateOf(online bool) ConnectivityState {
	if online {
		return Online
	}
	return Offline
}
