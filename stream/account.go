package stream

import (
	"context"

	"github.com/tradierkit/tradier/api"
)

// AccountSessionCreator is satisfied by *api.Client.
type AccountSessionCreator interface {
	CreateAccountStreamSession(ctx context.Context) (*api.StreamSession, error)
}

type accountSubscription struct {
	Events          []EventKind `json:"events"`
	SessionID       string      `json:"sessionid"`
	ExcludeAccounts []string    `json:"excludeAccounts"`
}

// NewAccountRelay builds a relay for the account events stream. Events are
// OrderEvent, AccountEvent and HeartbeatEvent.
func NewAccountRelay(c AccountSessionCreator, excludeAccounts []string, opts ...Option) *Relay {
	if excludeAccounts == nil {
		excludeAccounts = []string{}
	}
	payload := func(s *api.StreamSession) ([]byte, error) {
		return json.Marshal(accountSubscription{
			Events:          []EventKind{KindOrder},
			SessionID:       s.SessionID,
			ExcludeAccounts: excludeAccounts,
		})
	}
	return newRelay("account", c.CreateAccountStreamSession, payload, DecodeAccountEvent, opts)
}
