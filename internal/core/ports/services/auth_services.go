package services

import (
	"context"
	"time"
)

// AuthSvc manages the optional local PIN and the sessions it unlocks.
type AuthSvc interface {
	// PINRequired reports whether a PIN has been set.
	PINRequired(ctx context.Context) (bool, error)

	// Unlock checks pin and issues a signed session token with its expiry.
	Unlock(ctx context.Context, pin string) (string, time.Time, error)

	// SetPIN sets a new PIN. currentPIN must match when a PIN is already set.
	SetPIN(ctx context.Context, currentPIN, newPIN string) error

	// ClearPIN removes the PIN after checking currentPIN.
	ClearPIN(ctx context.Context, currentPIN string) error
}
