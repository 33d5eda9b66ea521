package domain

import "time"

// NewSubscriber is a validated subscription request that has not been assigned
// an identity yet.
type NewSubscriber struct {
	Email SubscriberEmail
	Name  SubscriberName
}

// ParseNewSubscriber validates the raw form fields, name first. It returns the
// first failure and no partial value.
func ParseNewSubscriber(rawName, rawEmail string) (NewSubscriber, error) {
	name, err := ParseSubscriberName(rawName)
	if err != nil {
		return NewSubscriber{}, err
	}
	email, err := ParseSubscriberEmail(rawEmail)
	if err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{Email: email, Name: name}, nil
}

// Subscriber is an accepted subscription.
type Subscriber struct {
	ID           SubscriberID
	Email        SubscriberEmail
	Name         SubscriberName
	SubscribedAt time.Time
}

// NewSubscriberFrom assigns identity and acceptance time to a validated request.
func NewSubscriberFrom(id SubscriberID, ns NewSubscriber, subscribedAt time.Time) Subscriber {
	return Subscriber{
		ID:           id,
		Email:        ns.Email,
		Name:         ns.Name,
		SubscribedAt: subscribedAt.UTC(),
	}
}
