// Package repository owns the in-memory user and event collections. Each
// manager is the single source of truth for its collection while the process
// runs, and rewrites the whole collection through the storage gateway after
// every mutation. Managers perform no authorization and no locking.
package repository

import (
	"context"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/google/uuid"
)

// UserStore is the user half of the storage gateway.
type UserStore interface {
	LoadUsers(ctx context.Context) (map[string]*model.User, error)
	SaveUsers(ctx context.Context, users map[string]*model.User) error
}

// EventStore is the event half of the storage gateway.
type EventStore interface {
	LoadEvents(ctx context.Context) (map[string]*model.Event, error)
	SaveEvents(ctx context.Context, events map[string]*model.Event) error
}

// IDFunc generates identifiers for new entities.
type IDFunc func() string

// Clock reports the current time.
type Clock func() time.Time

func newUUID() string { return uuid.New().String() }

func cloneUsers(list []*model.User) []*model.User {
	out := make([]*model.User, len(list))
	for i, u := range list {
		out[i] = u.Clone()
	}
	return out
}

func cloneEvents(list []*model.Event) []*model.Event {
	out := make([]*model.Event, len(list))
	for i, e := range list {
		out[i] = e.Clone()
	}
	return out
}
