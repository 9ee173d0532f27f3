package incentives

import "errors"

var (
	ErrNotFound           = errors.New("incentives: incentive not found")
	ErrUnauthorized       = errors.New("incentives: unauthorized")
	ErrInvalidIncentive   = errors.New("incentives: invalid incentive")
	ErrInactive           = errors.New("incentives: incentive not active")
	ErrInsufficientBudget = errors.New("incentives: insufficient budget")
)
