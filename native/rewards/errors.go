package rewards

import "errors"

var (
	ErrMaterialNotFound   = errors.New("rewards: material not found")
	ErrIncentiveNotFound  = errors.New("rewards: incentive not found")
	ErrUnauthorized       = errors.New("rewards: caller is not the rewarder")
	ErrNotVerified        = errors.New("rewards: material not verified")
	ErrWasteTypeMismatch  = errors.New("rewards: waste type mismatch")
	ErrNotActive          = errors.New("rewards: incentive not active")
	ErrInsufficientBudget = errors.New("rewards: insufficient budget")
	ErrInsufficientFunds  = errors.New("rewards: rewarder balance too low")
	ErrAmountOverflow     = errors.New("rewards: amount overflow")
	ErrInvalidPercentages = errors.New("rewards: percentage sum exceeds 100")
)
