package core

import "errors"

// Load errors.
var (
	// ErrInvalidLevelReference is reported when a requested level number is
	// absent. The session falls back to a random board.
	ErrInvalidLevelReference = errors.New("sortpack: level not found")
	// ErrInvalidItemID marks a placement whose item id is not registered.
	// The placement is skipped.
	ErrInvalidItemID = errors.New("sortpack: unregistered item id")
	// ErrMissingCollaborator aborts a load that lacks a required collaborator
	// or a usable grid. Nothing is committed.
	ErrMissingCollaborator = errors.New("sortpack: missing collaborator")
)

// Move errors.
var (
	ErrItemDetached    = errors.New("sortpack: item is not on the board")
	ErrNoSuchCell      = errors.New("sortpack: no cell at position")
	ErrCellBusy        = errors.New("sortpack: cell is animating")
	ErrCellLocked      = errors.New("sortpack: cell is locked")
	ErrSlotOccupied    = errors.New("sortpack: slot is occupied or out of range")
	ErrGameOver        = errors.New("sortpack: game is over")
	ErrNotLockedCell   = errors.New("sortpack: cell has no lock")
	ErrAlreadyUnlocked = errors.New("sortpack: cell is already unlocked")
)

// Booster errors.
var (
	ErrNoUsesLeft       = errors.New("sortpack: no uses left")
	ErrBoosterActive    = errors.New("sortpack: booster already active")
	ErrNoMergeCandidate = errors.New("sortpack: no item type has three instances")
	ErrNotEnoughItems   = errors.New("sortpack: not enough items to swap")
	ErrUnknownBooster   = errors.New("sortpack: unknown booster")
)
