package usage

import "errors"

var (
	// ErrLimitReached indicates the employer exhausted a plan limit.
	ErrLimitReached = errors.New("limit reached")
	// ErrSubscriptionInactive blocks paid-tier usage without an active subscription.
	ErrSubscriptionInactive = errors.New("subscription inactive")
	// ErrSeatsExceeded rejects seat counts above the tier's cap.
	ErrSeatsExceeded = errors.New("seats exceed plan")
	// ErrInvalidKind rejects unknown usage kinds.
	ErrInvalidKind = errors.New("invalid usage kind")
)
