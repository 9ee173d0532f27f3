package materials

import "errors"

var (
	ErrNotFound        = errors.New("materials: material not found")
	ErrNotOwner        = errors.New("materials: caller is not the current owner")
	ErrNotRegistered   = errors.New("materials: participant not registered")
	ErrInvalidMaterial = errors.New("materials: invalid material")
	ErrAlreadyVerified = errors.New("materials: already verified")
)
