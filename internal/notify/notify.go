// Package notify delivers the sighting email over authenticated SMTP.
package notify

import (
	"context"
	"fmt"
	"time"
)

// Notifier is implemented by anything that can deliver a sighting alert.
type Notifier interface {
	Notify(ctx context.Context, distanceKm float64, at time.Time) error
}

// AuthError reports a rejected SMTP credential (reply code 534/535). The
// monitor logs it distinctly from transport failures; neither is fatal.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("smtp authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }
