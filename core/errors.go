package live

import "errors"

var (
	// ErrConfigurationMissing is returned by Connect when no session
	// configuration was ever set; no connection attempt is made.
	ErrConfigurationMissing = errors.New("session configuration missing")

	// ErrConnectionFailed wraps transport-level failures during Connect. The
	// session reverts to disconnected when it is returned.
	ErrConnectionFailed = errors.New("failed to establish live connection")

	// ErrNotConnected is returned by operations that need an open connection.
	ErrNotConnected = errors.New("session not connected")
)
