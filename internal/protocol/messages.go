package protocol

// HELLO (client -> bridge)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Login           string `json:"login"`
	// ServerAddress is the Minecraft server the bridge connects to.
	ServerAddress string     `json:"server_address"`
	AutoRespawn   bool       `json:"auto_respawn,omitempty"`
	Auth          *HelloAuth `json:"auth,omitempty"`
}

type HelloAuth struct {
	Token string `json:"token,omitempty"`
}

// WELCOME (bridge -> client), sent once the player spawned.
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id,omitempty"`
	EntityID        int    `json:"entity_id"`
	Name            string `json:"name"`
	MinY            int    `json:"min_y"`
	Height          int    `json:"height"`
	TickRateHz      int    `json:"tick_rate_hz"`
}

// ACK (bridge -> client) answers one ACT once the action finished.
//
// Tick is the first STATE tick that shows the result of the action. The
// bridge may send that STATE after the ACK; the client holds the action
// open until it has applied it. Zero means the action changes nothing the
// client caches.
type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AckFor          string `json:"ack_for"`
	Accepted        bool   `json:"accepted"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
	Tick            uint64 `json:"tick,omitempty"`
}

// Err returns the failure carried by the ack, nil when accepted.
func (a AckMsg) Err() error {
	if a.Accepted {
		return nil
	}
	code := a.Code
	if code == "" {
		code = ErrInternal
	}
	return &CodeError{Code: code, Message: a.Message}
}
