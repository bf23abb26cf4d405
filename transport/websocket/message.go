package websocket

// Message is one inbound protocol frame; fields beyond Type are populated
// depending on the discriminator.
type Message struct {
	Type     string `json:"type"`
	GameType string `json:"gameType,omitempty"`
	GameID   string `json:"gameId,omitempty"`
	Position *int   `json:"position,omitempty"`
	Column   *int   `json:"column,omitempty"`
	Message  string `json:"message,omitempty"`
}

const (
	actionCreateGame    = "create_game"
	actionJoinGame      = "join_game"
	actionMakeMove      = "make_move"
	actionRequestReplay = "request_replay"
	actionSendMessage   = "send_message"
)

type ConnectedEvent struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

const (
	eventConnected = "connected"
	eventError     = "error"
	eventAuthError = "auth_error"
)
