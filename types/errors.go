package types

import "errors"

// Terminal error kinds of the relay protocol. Nothing is retried internally;
// callers match with errors.Is and decide themselves whether a resubmit can
// ever succeed (e.g. ErrInsufficientFeeBalance after a reserve top-up).
var (
	ErrChainNotAllowed        = errors.New("chain not allowed")
	ErrTokenNotAllowed        = errors.New("token not allowed")
	ErrSenderNotAllowed       = errors.New("sender not allowed")
	ErrInvalidReceiver        = errors.New("invalid receiver")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInsufficientFeeBalance = errors.New("insufficient fee balance")
	ErrReplayedMessage        = errors.New("replayed message")
	ErrTransferFailed         = errors.New("transfer failed")
	ErrNothingToWithdraw      = errors.New("nothing to withdraw")
	ErrUnauthorizedAdmin      = errors.New("unauthorized admin")
	ErrSettlementUnsupported  = errors.New("settlement mode unsupported")
	ErrPayloadUnsupported     = errors.New("payload unsupported")
)
