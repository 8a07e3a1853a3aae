package transport

// LinkState is the state of a link.
type LinkState uint8

const (
	// StateDisconnected indicates no stream.
	StateDisconnected LinkState = iota

	// StateConnecting indicates a dial is in progress.
	StateConnecting

	// StateConnected indicates bytes are being routed.
	StateConnected

	// StateReconnecting indicates a wait before the next dial.
	StateReconnecting

	// StateClosed indicates the link will not be used again.
	StateClosed
)

// String returns the state name.
func (s LinkState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnecting:
		return "RECONNECTING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
