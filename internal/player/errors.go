package player

import "errors"

var (
	ErrBadCredentials       = errors.New("bad credentials")
	ErrInvalidUsername      = errors.New("invalid username")
	ErrWeakPassword         = errors.New("password too short")
	ErrInvalidCharacterName = errors.New("invalid character name")
	ErrNameTaken            = errors.New("character name already taken")
	ErrTooManyCharacters    = errors.New("character limit reached")
	ErrCharacterNotFound    = errors.New("character not found")
	ErrNotOwned             = errors.New("character belongs to another account")
)
