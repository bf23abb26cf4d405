package usecase

import "github.com/gridclash/gridclash-backend/internal/entity"

const (
	EventGameCreated          = "game_created"
	EventGameStarted          = "game_started"
	EventMoveMade             = "move_made"
	EventGameOver             = "game_over"
	EventReplayAcknowledged   = "replay_request_acknowledged"
	EventReplayRequested      = "replay_requested"
	EventChatMessage          = "chat_message"
	EventOpponentDisconnected = "opponent_disconnected"
)

type GameCreatedEvent struct {
	Type   string          `json:"type"`
	GameID string          `json:"gameId"`
	Game   *entity.Session `json:"game"`
}

type GameStartedEvent struct {
	Type string          `json:"type"`
	Game *entity.Session `json:"game"`
}

type MoveMadeEvent struct {
	Type string          `json:"type"`
	Game *entity.Session `json:"game"`
}

// GameOverEvent carries a nil Winner for a draw.
type GameOverEvent struct {
	Type        string          `json:"type"`
	Game        *entity.Session `json:"game"`
	Winner      *string         `json:"winner"`
	WinningLine []int           `json:"winningLine,omitempty"`
}

type ReplayAcknowledgedEvent struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
}

type ReplayRequestedEvent struct {
	Type        string `json:"type"`
	GameID      string `json:"gameId"`
	RequesterID string `json:"requesterId"`
}

type ChatMessageEvent struct {
	Type         string `json:"type"`
	GameID       string `json:"gameId"`
	SenderSymbol string `json:"senderSymbol"`
	Message      string `json:"message"`
}

type OpponentDisconnectedEvent struct {
	Type                 string `json:"type"`
	GameID               string `json:"gameId"`
	DisconnectedPlayerID string `json:"disconnectedPlayerId"`
	Message              string `json:"message"`
}
