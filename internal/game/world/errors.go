package world

import "errors"

// Load-time errors. A world that fails with either of these must not be played.
var (
	// ErrMalformedWorld reports a world description with missing or invalid fields.
	ErrMalformedWorld = errors.New("malformed world")
	// ErrDanglingReference reports a room key that does not resolve to a room.
	ErrDanglingReference = errors.New("dangling reference")
)

// Runtime errors. All of them are recoverable; the failed command leaves state unchanged.
var (
	ErrUnknownRoom     = errors.New("unknown room")
	ErrUnknownPathway  = errors.New("unknown pathway")
	ErrNoSuchExit      = errors.New("no such exit")
	ErrPathBlocked     = errors.New("path blocked")
	ErrNotFound        = errors.New("not found")
	ErrAmbiguous       = errors.New("ambiguous")
	ErrContainerClosed = errors.New("container closed")
	ErrAlreadyInState  = errors.New("already in state")
	ErrInventoryFull   = errors.New("inventory full")
	ErrContainment     = errors.New("container cannot hold itself")
	ErrNotEquippable   = errors.New("not equippable")
)
