package apperror

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFull          = errors.New("game is already full")
	ErrSelfJoin          = errors.New("cannot join your own game")
	ErrWrongPhase        = errors.New("game is not waiting for players")
	ErrGameAborted       = errors.New("game was aborted")
	ErrAlreadyInGame     = errors.New("already participating in a game")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrColumnFull        = errors.New("column is already full")
	ErrInvalidTarget     = errors.New("invalid move target")
	ErrGameNotPlaying    = errors.New("game is not being played")
	ErrNotParticipant    = errors.New("player is not part of this game")
	ErrNotFound          = errors.New("not found")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrInvalidCredential = errors.New("invalid email or password")
)
