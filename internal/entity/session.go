package entity

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
	StatusAborted  = "aborted"

	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""
)

// Variant selects the rule set a session is played under.
type Variant string

const (
	VariantConnectThree Variant = "connect3"
	VariantConnectFour  Variant = "connect4"
)

const (
	ConnectThreeCells = 9

	ConnectFourCols  = 7
	ConnectFourRows  = 6
	ConnectFourCells = ConnectFourCols * ConnectFourRows
)

// BoardSize returns the flat board length for the variant.
func (that Variant) BoardSize() int {
	if that == VariantConnectFour {
		return ConnectFourCells
	}
	return ConnectThreeCells
}

func (that Variant) IsValid() bool {
	return that == VariantConnectThree || that == VariantConnectFour
}

// Session is one game between at most two identities. The board is a flat
// row-major slice; cells hold EmptyCell, MarkX or MarkO.
type Session struct {
	ID          string            `json:"id"`
	Variant     Variant           `json:"gameType"`
	Board       []string          `json:"board"`
	Seats       map[string]string `json:"players"` // mark -> identity
	Turn        string            `json:"currentTurn,omitempty"`
	Starter     string            `json:"-"`
	Status      string            `json:"status"`
	Winner      string            `json:"winner,omitempty"`
	WinningLine []int             `json:"winningLine,omitempty"`

	RematchVotes map[string]struct{} `json:"-"`
}

// NewSession seats the creator on the first mark and waits for an opponent.
func NewSession(id string, variant Variant, creator string) *Session {
	return &Session{
		ID:           id,
		Variant:      variant,
		Board:        make([]string, variant.BoardSize()),
		Seats:        map[string]string{MarkX: creator},
		Turn:         MarkX,
		Starter:      MarkX,
		Status:       StatusWaiting,
		RematchVotes: make(map[string]struct{}),
	}
}

func (that *Session) IsWaiting() bool  { return that.Status == StatusWaiting }
func (that *Session) IsPlaying() bool  { return that.Status == StatusPlaying }
func (that *Session) IsFinished() bool { return that.Status == StatusFinished }
func (that *Session) IsAborted() bool  { return that.Status == StatusAborted }

// MarkOf returns the mark the identity is seated on.
func (that *Session) MarkOf(identity string) (string, bool) {
	for mark, seated := range that.Seats {
		if seated == identity {
			return mark, true
		}
	}
	return "", false
}

// Opponent returns the identity seated opposite the given one.
func (that *Session) Opponent(identity string) (string, bool) {
	for _, seated := range that.Seats {
		if seated != identity && seated != "" {
			return seated, true
		}
	}
	return "", false
}

func (that *Session) Creator() string {
	return that.Seats[MarkX]
}

// Vacate frees the identity's seat and forgets its rematch vote.
func (that *Session) Vacate(identity string) {
	for mark, seated := range that.Seats {
		if seated == identity {
			delete(that.Seats, mark)
		}
	}
	delete(that.RematchVotes, identity)
}

// HasRematchConsensus reports whether every seated identity voted for a rematch.
func (that *Session) HasRematchConsensus() bool {
	if len(that.Seats) < 2 {
		return false
	}

	for _, seated := range that.Seats {
		if _, ok := that.RematchVotes[seated]; !ok {
			return false
		}
	}

	return true
}

// ResetRound clears the board for a rematch. The opening mark alternates
// between rounds, and the fresh round starts immediately.
func (that *Session) ResetRound() {
	that.Starter = ToggleMark(that.Starter)
	that.Turn = that.Starter
	that.Board = make([]string, that.Variant.BoardSize())
	that.Status = StatusPlaying
	that.Winner = ""
	that.WinningLine = nil
	that.RematchVotes = make(map[string]struct{})
}

// Abort terminates the session without a result.
func (that *Session) Abort() {
	that.Status = StatusAborted
	that.Turn = ""
	that.Winner = ""
	that.WinningLine = nil
	that.RematchVotes = make(map[string]struct{})
}

func ToggleMark(mark string) string {
	if mark == MarkX {
		return MarkO
	}
	return MarkX
}
