package subscriberrepo

import "errors"

// ErrAlreadyExists indicates a subscriber already exists with the provided ID or email.
var ErrAlreadyExists = errors.New("subscriber already exists")
