package clock

import "time"

// Clock supplies the acceptance timestamp for new subscriptions.
// Tests swap in a manual implementation to pin the value.
type Clock interface {
	Now() time.Time
}
