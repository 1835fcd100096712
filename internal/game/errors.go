package game

import "errors"

var (
	ErrEntityNotFound = errors.New("entity not found")
	ErrTargetDead     = errors.New("target is dead")
	ErrAttackerDead   = errors.New("attacker is dead")
	ErrOutOfRange     = errors.New("out of range")
	ErrInventoryFull  = errors.New("inventory full")
	ErrBadSlot        = errors.New("invalid inventory slot")
)
