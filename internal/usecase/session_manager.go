package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gridclash/gridclash-backend/internal/apperror"
	"github.com/gridclash/gridclash-backend/internal/engine"
	"github.com/gridclash/gridclash-backend/internal/entity"
	"github.com/gridclash/gridclash-backend/internal/pkg"
)

const (
	// RatingDelta is credited to the winner and debited from the loser of a
	// decisive game.
	RatingDelta = 25

	maxChatLength       = 250
	ratingUpdateTimeout = 5 * time.Second
)

type broadcaster interface {
	Subscribe(gameID, clientID string)
	Unsubscribe(gameID, clientID string)
	Publish(gameID string, payload any)
	SendToIdentity(identity string, payload any) bool
}

type ratingRepo interface {
	ApplyDelta(ctx context.Context, identity string, delta int64) error
}

// SessionManager owns every active session. A single mutex serializes event
// handling, so no session is ever observed mid-update; the rating side effect
// is the one thing that escapes the critical section.
type SessionManager struct {
	logger      *slog.Logger
	broadcaster broadcaster
	ratings     ratingRepo

	mu         sync.Mutex
	sessions   map[string]*entity.Session
	byIdentity map[string]string // identity -> game id
}

func NewSessionManager(logger *slog.Logger, broadcaster broadcaster, ratings ratingRepo) *SessionManager {
	return &SessionManager{
		logger:      logger,
		broadcaster: broadcaster,
		ratings:     ratings,

		sessions:   make(map[string]*entity.Session),
		byIdentity: make(map[string]string),
	}
}

// CreateGame allocates a session with the requester on the first seat and
// subscribes the requester's connection to it.
func (that *SessionManager) CreateGame(identity, clientID string, variant entity.Variant) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.byIdentity[identity]; ok {
		return nil, apperror.ErrAlreadyInGame
	}

	gameID := that.generateUnusedGameID()

	session := entity.NewSession(gameID, variant, identity)
	that.sessions[gameID] = session
	that.byIdentity[identity] = gameID

	that.broadcaster.Subscribe(gameID, clientID)
	that.broadcaster.Publish(gameID, GameCreatedEvent{
		Type:   EventGameCreated,
		GameID: gameID,
		Game:   session,
	})

	that.logger.Info("game created", "gameID", gameID, "gameType", variant)

	return session, nil
}

// JoinGame fills the second seat and starts the game.
func (that *SessionManager) JoinGame(identity, clientID, gameID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrGameNotFound, gameID)
	}

	if len(session.Seats) >= 2 {
		return apperror.ErrGameFull
	}

	if session.Creator() == identity {
		return apperror.ErrSelfJoin
	}

	if !session.IsWaiting() {
		return apperror.ErrWrongPhase
	}

	if _, ok = that.byIdentity[identity]; ok {
		return apperror.ErrAlreadyInGame
	}

	session.Seats[entity.MarkO] = identity
	session.Status = entity.StatusPlaying
	session.RematchVotes = make(map[string]struct{})
	that.byIdentity[identity] = gameID

	that.broadcaster.Subscribe(gameID, clientID)
	that.broadcaster.Publish(gameID, GameStartedEvent{
		Type: EventGameStarted,
		Game: session,
	})

	that.logger.Info("game started", "gameID", gameID)

	return nil
}

// MakeMove applies a move if every precondition holds; otherwise nothing
// happens and nothing is reported back, per the move contract.
func (that *SessionManager) MakeMove(identity, gameID string, target int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "MakeMove", "gameID", gameID)

	session, ok := that.sessions[gameID]
	if !ok {
		return
	}

	mark, ok := session.MarkOf(identity)
	if !ok {
		return
	}

	if !session.IsPlaying() || session.Turn != mark {
		return
	}

	cell, err := engine.ApplyMove(session.Board, session.Variant, mark, target)
	if err != nil {
		log.Debug("move rejected", "target", target, "error", err)
		return
	}

	outcome := engine.DetectOutcome(session.Board, session.Variant, mark, cell)

	switch outcome.Kind {
	case engine.OutcomeWin:
		that.finishGame(session, mark, outcome.Line)
	case engine.OutcomeDraw:
		that.finishGame(session, "", nil)
	default:
		session.Turn = entity.ToggleMark(mark)
		that.broadcaster.Publish(gameID, MoveMadeEvent{
			Type: EventMoveMade,
			Game: session,
		})
	}
}

// finishGame settles the session and notifies both players before the rating
// write is even attempted; a slow or failing rating store must never delay
// the game-over message.
func (that *SessionManager) finishGame(session *entity.Session, winnerMark string, line []int) {
	session.Status = entity.StatusFinished
	session.Turn = ""

	event := GameOverEvent{
		Type: EventGameOver,
		Game: session,
	}

	if winnerMark != "" {
		session.Winner = winnerMark
		event.Winner = &winnerMark

		// the highlighted run is only meaningful on the drop board
		if session.Variant == entity.VariantConnectFour {
			session.WinningLine = line
			event.WinningLine = line
		}
	}

	that.broadcaster.Publish(session.ID, event)

	that.logger.Info("game over", "gameID", session.ID, "winner", winnerMark)

	if winnerMark == "" {
		return
	}

	winner := session.Seats[winnerMark]
	loser := session.Seats[entity.ToggleMark(winnerMark)]

	go that.applyRatingDeltas(winner, loser)
}

// RequestRematch records a vote for a new round; when both seats have voted
// the board resets and the starter flips.
func (that *SessionManager) RequestRematch(identity, gameID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[gameID]
	if !ok || !session.IsFinished() {
		return
	}

	if _, seated := session.MarkOf(identity); !seated {
		return
	}

	alreadyVoted := len(session.RematchVotes)
	session.RematchVotes[identity] = struct{}{}

	that.broadcaster.SendToIdentity(identity, ReplayAcknowledgedEvent{
		Type:   EventReplayAcknowledged,
		GameID: gameID,
	})

	if session.HasRematchConsensus() {
		session.ResetRound()
		that.broadcaster.Publish(gameID, GameStartedEvent{
			Type: EventGameStarted,
			Game: session,
		})

		that.logger.Info("round restarted", "gameID", gameID, "starter", session.Starter)

		return
	}

	if alreadyVoted == 0 {
		if opponent, ok := session.Opponent(identity); ok {
			that.broadcaster.SendToIdentity(opponent, ReplayRequestedEvent{
				Type:        EventReplayRequested,
				GameID:      gameID,
				RequesterID: identity,
			})
		}
	}
}

// SendChat relays a trimmed, length-capped message to the whole session.
func (that *SessionManager) SendChat(identity, gameID, text string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrGameNotFound, gameID)
	}

	if session.IsAborted() {
		return apperror.ErrGameAborted
	}

	mark, seated := session.MarkOf(identity)
	if !seated {
		return apperror.ErrNotParticipant
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if runes := []rune(text); len(runes) > maxChatLength {
		text = string(runes[:maxChatLength])
	}

	that.broadcaster.Publish(gameID, ChatMessageEvent{
		Type:         EventChatMessage,
		GameID:       gameID,
		SenderSymbol: mark,
		Message:      text,
	})

	return nil
}

// Disconnect tears down or aborts the at-most-one session the identity is
// seated in and drops the connection's subscription.
func (that *SessionManager) Disconnect(identity, clientID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	gameID, ok := that.byIdentity[identity]
	if !ok {
		return
	}

	delete(that.byIdentity, identity)
	defer that.broadcaster.Unsubscribe(gameID, clientID)

	session, ok := that.sessions[gameID]
	if !ok {
		return
	}

	log := that.logger.With("method", "Disconnect", "gameID", gameID)

	mark, _ := session.MarkOf(identity)
	wasActive := session.IsPlaying() || session.IsFinished()
	session.Vacate(identity)

	var remaining string
	for _, seated := range session.Seats {
		remaining = seated
	}

	switch {
	case session.IsWaiting() && mark == entity.MarkX:
		// nobody joined yet, nothing to keep
		delete(that.sessions, gameID)
		log.Info("waiting game deleted", "player", identity)

	case session.IsWaiting():
		log.Info("joiner left before game start", "player", identity)

	case wasActive && remaining != "":
		session.Abort()
		that.broadcaster.SendToIdentity(remaining, OpponentDisconnectedEvent{
			Type:                 EventOpponentDisconnected,
			GameID:               gameID,
			DisconnectedPlayerID: identity,
			Message:              "Your opponent has disconnected",
		})
		log.Info("game aborted on disconnect", "player", identity)

	case remaining == "":
		delete(that.sessions, gameID)
		log.Info("abandoned game deleted")
	}
}

// GetGame looks a session up by id.
func (that *SessionManager) GetGame(gameID string) (*entity.Session, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[gameID]

	return session, ok
}

// generateUnusedGameID retries until the short id misses every live session.
func (that *SessionManager) generateUnusedGameID() string {
	for {
		gameID := pkg.GenerateGameID()
		if _, exists := that.sessions[gameID]; !exists {
			return gameID
		}
	}
}

func (that *SessionManager) applyRatingDeltas(winner, loser string) {
	log := that.logger.With("method", "applyRatingDeltas")

	ctx, cancel := context.WithTimeout(context.Background(), ratingUpdateTimeout)
	defer cancel()

	if err := that.ratings.ApplyDelta(ctx, winner, RatingDelta); err != nil {
		log.Error("failed to credit winner rating", "identity", winner, "error", err)
	}

	if err := that.ratings.ApplyDelta(ctx, loser, -RatingDelta); err != nil {
		log.Error("failed to debit loser rating", "identity", loser, "error", err)
	}
}
