package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrOrderNotFound        = fmt.Errorf("order %w", ErrNotFound)
	ErrCommodityNotFound    = fmt.Errorf("commodity %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)

	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	ErrInvalidPrice     = fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	ErrInvalidDecision  = fmt.Errorf("%w: decision must be approved or rejected", ErrInvalidInput)
	ErrInvalidOperation = fmt.Errorf("%w: operation must be ADD or SUBTRACT", ErrInvalidInput)
	ErrInvalidOrderType = fmt.Errorf("%w: transaction type must be BUY or SELL", ErrInvalidInput)
	ErrInvalidRole      = fmt.Errorf("%w: unknown role", ErrInvalidInput)
	ErrInvalidStatus    = fmt.Errorf("%w: status must be ACTIVE or INACTIVE", ErrInvalidInput)
	ErrTooManyDecimals  = fmt.Errorf("%w: at most 4 decimal places are allowed", ErrInvalidInput)

	ErrUnauthorized          = errors.New("unauthorized")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrOrderAlreadyProcessed = errors.New("order already processed")
	ErrUserInactive          = errors.New("user is inactive")
	ErrUsernameExists        = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrNilOrder              = errors.New("order is nil")
	ErrNilUser               = errors.New("user is nil")
)
