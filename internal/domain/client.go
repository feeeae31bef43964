package domain

import "github.com/google/uuid"

// ClientToken identifies a browser across its connections.
// It is carried in the session cookie and only used for logging.
type ClientToken string

// NewClientToken is a tiny helper to avoid ad-hoc uuid calls in adapters.
func NewClientToken() ClientToken {
	return ClientToken(uuid.NewString())
}
