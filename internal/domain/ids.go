package domain

// SubscriberID is the identifier assigned to a subscriber when the subscription
// is accepted. It is a UUID in canonical string form.
type SubscriberID string
