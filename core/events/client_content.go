package events

const (
	// KindClientContent identifies user-authored turns submitted to the session.
	KindClientContent Kind = "client_content.turns"
)

// ClientTurn is one user-authored turn with its ordered text parts.
type ClientTurn struct {
	Role  string
	Parts []string
}

// ClientContent carries user-authored turns in submission order.
type ClientContent struct {
	Base
	Turns []ClientTurn
}

// NewClientContent creates a client content event.
func NewClientContent(turns []ClientTurn) ClientContent {
	return ClientContent{Base: NewBase(KindClientContent), Turns: turns}
}
