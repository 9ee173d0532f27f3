package participants

import "errors"

var (
	ErrAlreadyRegistered  = errors.New("participants: already registered")
	ErrUnauthorized       = errors.New("participants: unauthorized")
	ErrInvalidParticipant = errors.New("participants: invalid participant")
	ErrNotFound           = errors.New("participants: not found")
)
