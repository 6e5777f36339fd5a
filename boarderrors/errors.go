// Package boarderrors holds the sentinel errors shared by the board
// engine and its hosts. Keeping them in their own package lets both
// board and cmd/boardserver depend on the error values without a
// circular import.
package boarderrors

import "errors"

var (
	// ErrOutOfBounds is returned by any cell-addressed operation given
	// a row or column outside the board's dimensions.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrUnknownPlayer is returned by FlipUp when the player id has not
	// been registered.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrInvalidPlayerId is returned by RegisterPlayer when id is
	// empty or contains whitespace.
	ErrInvalidPlayerId = errors.New("invalid player id")

	// ErrEmptySpace is returned by FlipUp rules 1-A and 2-A.
	ErrEmptySpace = errors.New("empty space")

	// ErrControlled is returned by FlipUp rule 2-B.
	ErrControlled = errors.New("card is controlled")

	// ErrSameCardTwice is returned by FlipUp's same-cell guard.
	ErrSameCardTwice = errors.New("same card flipped twice")

	// ErrNotFaceUp is returned by FlipDown when the target is already
	// face-down.
	ErrNotFaceUp = errors.New("card is not face up")

	// ErrInvalidFile is returned by ParseFromFile for an empty file.
	ErrInvalidFile = errors.New("invalid board file")

	// ErrInvalidHeader is returned when the first line does not match
	// the RxC header grammar.
	ErrInvalidHeader = errors.New("invalid board file header")

	// ErrInvalidDimensions is returned when the header's row or
	// column count is not a positive integer.
	ErrInvalidDimensions = errors.New("invalid board dimensions")

	// ErrWrongCardCount is returned when the file's card line count
	// does not equal rows*cols.
	ErrWrongCardCount = errors.New("wrong card count")

	// ErrInvalidCard is returned when a card token is empty or contains
	// whitespace.
	ErrInvalidCard = errors.New("invalid card token")

	// ErrRepInvariantViolated is a programmer error: it indicates the
	// board's internal representation invariants no longer hold.
	ErrRepInvariantViolated = errors.New("board representation invariant violated")
)
