package game

import "errors"

// Errors returned for rejected input. A rejected action never changes the
// round, the caller resubmits.
var (
	ErrRoundClosed     = errors.New("round is not accepting actions")
	ErrUnknownPlayer   = errors.New("player is not in this round")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrInvalidAction   = errors.New("invalid action")
	ErrIllegalCheck    = errors.New("cannot check, there is an amount to call")
	ErrRaiseTooSmall   = errors.New("raise is below the big blind")
	ErrRoundInProgress = errors.New("a round is already in progress")
	ErrTableNotReady   = errors.New("table needs between 2 and max players seated")
	ErrTableFull       = errors.New("table is full")
	ErrDuplicatePlayer = errors.New("player already seated")
	ErrNoMoney         = errors.New("player has no money")
	ErrStillInHand     = errors.New("player is still in the hand")
)
