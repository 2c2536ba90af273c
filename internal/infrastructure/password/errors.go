package password

import "errors"

var (
	// ErrHashPassword is returned whenever the hashing primitive fails
	ErrHashPassword = errors.New("cannot hash password")

	// ErrMalformedHash is returned when a stored hash is not a bcrypt string
	ErrMalformedHash = errors.New("malformed password hash")
)
