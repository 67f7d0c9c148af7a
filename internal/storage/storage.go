// Package storage persists the user and event collections as whole documents.
// Every save rewrites the full collection; there is no incremental update.
package storage

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// ErrCorruptDocument is returned when a stored document exists but cannot be
// decoded. It is distinct from "no data yet", which loads as an empty collection.
var ErrCorruptDocument = errors.New("corrupt document")

// Gateway is the load-all/save-all contract the managers depend on.
type Gateway interface {
	LoadUsers(ctx context.Context) (map[string]*model.User, error)
	SaveUsers(ctx context.Context, users map[string]*model.User) error
	LoadEvents(ctx context.Context) (map[string]*model.Event, error)
	SaveEvents(ctx context.Context, events map[string]*model.Event) error
}

// Document names used by backends that key storage by collection.
const (
	UsersDocument  = "users"
	EventsDocument = "events"
)
