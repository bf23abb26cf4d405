package websocket

import "github.com/gridclash/gridclash-backend/internal/entity"

func (that *Server) handleCreateGame(c *client, msg *Message) {
	log := that.logger.With("method", "handleCreateGame", "clientID", c.id)

	variant := entity.Variant(msg.GameType)
	if msg.GameType == "" {
		variant = entity.VariantConnectThree
	}

	if !variant.IsValid() {
		that.sendError(c, "unknown game type")
		return
	}

	if _, err := that.gameUseCase.CreateGame(c.identity, c.id, variant); err != nil {
		log.Error("failed to create game", "error", err)
		that.sendError(c, err.Error())
	}
}

func (that *Server) handleJoinGame(c *client, msg *Message) {
	log := that.logger.With("method", "handleJoinGame", "clientID", c.id)

	if err := that.gameUseCase.JoinGame(c.identity, c.id, msg.GameID); err != nil {
		log.Info("failed to join game", "gameID", msg.GameID, "error", err)
		that.sendError(c, err.Error())
	}
}

// handleMakeMove forwards the move target; a rejected move is dropped without
// feedback, matching the move contract.
func (that *Server) handleMakeMove(c *client, msg *Message) {
	target := msg.Position
	if msg.Column != nil {
		target = msg.Column
	}

	if target == nil {
		return
	}

	that.gameUseCase.MakeMove(c.identity, msg.GameID, *target)
}

func (that *Server) handleRequestReplay(c *client, msg *Message) {
	that.gameUseCase.RequestRematch(c.identity, msg.GameID)
}

func (that *Server) handleSendMessage(c *client, msg *Message) {
	if err := that.gameUseCase.SendChat(c.identity, msg.GameID, msg.Message); err != nil {
		that.sendError(c, err.Error())
	}
}
