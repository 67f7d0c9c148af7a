package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/Shivanand-hulikatti/eventhub/internal/logger"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// UserManager owns the mapping from user id to User.
type UserManager struct {
	store UserStore
	users map[string]*model.User
	newID IDFunc
}

// UserOption customises a UserManager.
type UserOption func(*UserManager)

// WithUserIDs overrides user id generation.
func WithUserIDs(fn IDFunc) UserOption {
	return func(m *UserManager) { m.newID = fn }
}

// NewUserManager loads the user collection from store.
func NewUserManager(ctx context.Context, store UserStore, opts ...UserOption) (*UserManager, error) {
	users, err := store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if users == nil {
		users = make(map[string]*model.User)
	}
	m := &UserManager{store: store, users: users, newID: newUUID}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// AddUser creates an account of the given role. Usernames are unique across
// all roles and compared case-sensitively.
func (m *UserManager) AddUser(ctx context.Context, username, password, email string, role model.Role) (string, error) {
	if m.usernameTaken(username, "") {
		return "", model.ErrUsernameExists
	}

	id := m.newID()
	m.users[id] = model.NewUser(id, username, password, email, role)
	if err := m.save(ctx, func() { delete(m.users, id) }); err != nil {
		return "", err
	}
	return id, nil
}

// Authenticate returns the id of the active user whose credentials match exactly.
func (m *UserManager) Authenticate(username, password string) (string, error) {
	for id, u := range m.users {
		if u.Username == username && u.Password == password && u.IsActive {
			return id, nil
		}
	}
	return "", model.ErrInvalidCredentials
}

// GetUser returns a copy of the user.
func (m *UserManager) GetUser(id string) (*model.User, bool) {
	u, ok := m.users[id]
	if !ok {
		return nil, false
	}
	return u.Clone(), true
}

// RoleOf returns the role of id without copying the user.
func (m *UserManager) RoleOf(id string) (model.Role, bool) {
	u, ok := m.users[id]
	if !ok {
		return "", false
	}
	return u.Role, true
}

// GetAllUsers returns copies of every user ordered by username.
func (m *UserManager) GetAllUsers() []*model.User {
	return m.filter(func(*model.User) bool { return true })
}

// GetUsersByRole returns copies of the users holding role, ordered by username.
func (m *UserManager) GetUsersByRole(role model.Role) []*model.User {
	return m.filter(func(u *model.User) bool { return u.Role == role })
}

// DeleteUser removes the user. It does not touch any event.
func (m *UserManager) DeleteUser(ctx context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	delete(m.users, id)
	return m.save(ctx, func() { m.users[id] = u })
}

// UpdateProfile changes username and/or email; empty values are left as they are.
func (m *UserManager) UpdateProfile(ctx context.Context, id, username, email string) error {
	u, ok := m.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	if username != "" && m.usernameTaken(username, id) {
		return model.ErrUsernameExists
	}

	prevName, prevEmail := u.Username, u.Email
	if username != "" {
		u.Username = username
	}
	if email != "" {
		u.Email = email
	}
	return m.save(ctx, func() { u.Username, u.Email = prevName, prevEmail })
}

// AddOwnedEvent appends eventID to an organizer's owned list. Non-organizers
// are left untouched and no save happens.
func (m *UserManager) AddOwnedEvent(ctx context.Context, organizerID, eventID string) error {
	u, ok := m.users[organizerID]
	if !ok {
		return model.ErrUserNotFound
	}
	before := slices.Clone(u.OwnedEventIDs)
	if !u.AddOwnedEvent(eventID) {
		return nil
	}
	return m.save(ctx, func() { u.OwnedEventIDs = before })
}

// AddRegistration records eventID on a regular user's registration list.
func (m *UserManager) AddRegistration(ctx context.Context, userID, eventID string) error {
	u, ok := m.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	before := slices.Clone(u.RegisteredEventIDs)
	if !u.AddRegistration(eventID) {
		return model.ErrRoleNotAllowed
	}
	return m.save(ctx, func() { u.RegisteredEventIDs = before })
}

// RemoveRegistration drops eventID from a regular user's registration list.
func (m *UserManager) RemoveRegistration(ctx context.Context, userID, eventID string) error {
	u, ok := m.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	before := slices.Clone(u.RegisteredEventIDs)
	if !u.RemoveRegistration(eventID) {
		return model.ErrNotRegistered
	}
	return m.save(ctx, func() { u.RegisteredEventIDs = before })
}

// StripRegistrations removes every id in eventIDs from the registration lists
// of userIDs in a single save. It returns how many entries were removed.
func (m *UserManager) StripRegistrations(ctx context.Context, userIDs, eventIDs []string) (int, error) {
	snapshot := make(map[string][]string)
	removed := 0
	for _, uid := range userIDs {
		u, ok := m.users[uid]
		if !ok || !u.IsRegular() {
			continue
		}
		if _, seen := snapshot[uid]; !seen {
			snapshot[uid] = slices.Clone(u.RegisteredEventIDs)
		}
		for _, eid := range eventIDs {
			for u.RemoveRegistration(eid) {
				removed++
			}
		}
	}
	if removed == 0 {
		return 0, nil
	}
	err := m.save(ctx, func() {
		for uid, list := range snapshot {
			m.users[uid].RegisteredEventIDs = list
		}
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (m *UserManager) usernameTaken(username, exceptID string) bool {
	for id, u := range m.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}

func (m *UserManager) filter(keep func(*model.User) bool) []*model.User {
	var list []*model.User
	for _, u := range m.users {
		if keep(u) {
			list = append(list, u)
		}
	}
	slices.SortFunc(list, func(a, b *model.User) int {
		return cmp.Or(cmp.Compare(a.Username, b.Username), cmp.Compare(a.ID, b.ID))
	})
	return cloneUsers(list)
}

// save persists the collection and runs undo when the write fails, so memory
// never runs ahead of the last good document.
func (m *UserManager) save(ctx context.Context, undo func()) error {
	if err := m.store.SaveUsers(ctx, m.users); err != nil {
		undo()
		logger.ErrorContext(ctx, "failed to save users", "error", err)
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// Restore puts back copies of previously captured users and saves. Callers use
// it to compensate for a failed step of a multi-collection operation.
func (m *UserManager) Restore(ctx context.Context, snapshot []*model.User) error {
	for _, u := range snapshot {
		m.users[u.ID] = u.Clone()
	}
	return m.save(ctx, func() {})
}
