package events

const (
	// KindSetupComplete identifies server acknowledgement of session setup.
	KindSetupComplete Kind = "connection.setup_complete"
	// KindConnectionClosed identifies transport teardown.
	KindConnectionClosed Kind = "connection.closed"
)

// SetupComplete marks the server accepting the session configuration.
type SetupComplete struct {
	Base
}

// NewSetupComplete creates a setup complete event.
func NewSetupComplete() SetupComplete {
	return SetupComplete{Base: NewBase(KindSetupComplete)}
}

// ConnectionClosed marks the end of the transport connection.
type ConnectionClosed struct {
	Base
	Reason string
}

// NewConnectionClosed creates a connection closed event.
func NewConnectionClosed(reason string) ConnectionClosed {
	return ConnectionClosed{Base: NewBase(KindConnectionClosed), Reason: reason}
}
