package subscriptions

// SubscribeInput is the raw, unvalidated submission as received from a caller.
type SubscribeInput struct {
	Name  string
	Email string
}
