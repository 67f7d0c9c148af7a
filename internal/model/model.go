// Package model defines the core domain types for the event registration system.
package model

import (
	"slices"
	"time"
)

// Role is the fixed capability tag of a user account.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleUser      Role = "user"
)

// ParseRole maps a free-form role string to a Role.
// Anything that is not admin or organizer is a regular user.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleOrganizer:
		return RoleOrganizer
	default:
		return RoleUser
	}
}

// User is an account of one of the three roles. The role is fixed at creation
// and selects which payload is meaningful: OwnedEventIDs for organizers,
// RegisteredEventIDs for regular users. Admins carry neither.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	Role     Role   `json:"role"`

	OwnedEventIDs      []string `json:"owned_event_ids,omitempty"`
	RegisteredEventIDs []string `json:"registered_event_ids,omitempty"`
}

// NewUser builds the role-appropriate variant with an active account.
func NewUser(id, username, password, email string, role Role) *User {
	u := &User{
		ID:       id,
		Username: username,
		Password: password,
		Email:    email,
		IsActive: true,
		Role:     role,
	}
	switch role {
	case RoleOrganizer:
		u.OwnedEventIDs = []string{}
	case RoleUser:
		u.RegisteredEventIDs = []string{}
	}
	return u
}

func (u *User) IsAdmin() bool     { return u.Role == RoleAdmin }
func (u *User) IsOrganizer() bool { return u.Role == RoleOrganizer }
func (u *User) IsRegular() bool   { return u.Role == RoleUser }

// AddOwnedEvent appends eventID to an organizer's owned list.
// It reports false for any other role.
func (u *User) AddOwnedEvent(eventID string) bool {
	if !u.IsOrganizer() {
		return false
	}
	u.OwnedEventIDs = append(u.OwnedEventIDs, eventID)
	return true
}

// RemoveOwnedEvent drops the first occurrence of eventID from an organizer's list.
func (u *User) RemoveOwnedEvent(eventID string) bool {
	if !u.IsOrganizer() {
		return false
	}
	var ok bool
	u.OwnedEventIDs, ok = removeFirst(u.OwnedEventIDs, eventID)
	return ok
}

// AddRegistration records eventID on a regular user's registration list.
func (u *User) AddRegistration(eventID string) bool {
	if !u.IsRegular() {
		return false
	}
	u.RegisteredEventIDs = append(u.RegisteredEventIDs, eventID)
	return true
}

// RemoveRegistration drops eventID from a regular user's registration list.
func (u *User) RemoveRegistration(eventID string) bool {
	if !u.IsRegular() {
		return false
	}
	var ok bool
	u.RegisteredEventIDs, ok = removeFirst(u.RegisteredEventIDs, eventID)
	return ok
}

// IsRegisteredFor reports whether eventID is on the user's registration list.
func (u *User) IsRegisteredFor(eventID string) bool {
	return slices.Contains(u.RegisteredEventIDs, eventID)
}

// Clone returns a deep copy safe to hand out of a manager.
func (u *User) Clone() *User {
	c := *u
	c.OwnedEventIDs = slices.Clone(u.OwnedEventIDs)
	c.RegisteredEventIDs = slices.Clone(u.RegisteredEventIDs)
	return &c
}

// Event is an organizer-proposed event. It becomes registrable once approved.
type Event struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Date              time.Time `json:"date"`
	Venue             string    `json:"venue"`
	Capacity          int       `json:"capacity"`
	Category          string    `json:"category"`
	OrganizerID       string    `json:"organizer_id"`
	IsApproved        bool      `json:"is_approved"`
	RegisteredUserIDs []string  `json:"registered_user_ids"`
}

// Remaining returns the number of available seats.
func (e *Event) Remaining() int {
	return e.Capacity - len(e.RegisteredUserIDs)
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return len(e.RegisteredUserIDs) >= e.Capacity
}

// RegisterUser appends userID if a seat is free.
func (e *Event) RegisterUser(userID string) bool {
	if e.IsFull() {
		return false
	}
	e.RegisteredUserIDs = append(e.RegisteredUserIDs, userID)
	return true
}

// UnregisterUser removes userID from the registrant list.
func (e *Event) UnregisterUser(userID string) bool {
	var ok bool
	e.RegisteredUserIDs, ok = removeFirst(e.RegisteredUserIDs, userID)
	return ok
}

// HasRegistrant reports whether userID holds a seat.
func (e *Event) HasRegistrant(userID string) bool {
	return slices.Contains(e.RegisteredUserIDs, userID)
}

// Approve marks the event registrable. There is no way back to pending except
// through an edit under the re-approval policy.
func (e *Event) Approve() {
	e.IsApproved = true
}

// Clone returns a deep copy safe to hand out of a manager.
func (e *Event) Clone() *Event {
	c := *e
	c.RegisteredUserIDs = slices.Clone(e.RegisteredUserIDs)
	if c.RegisteredUserIDs == nil {
		c.RegisteredUserIDs = []string{}
	}
	return &c
}

// EventDetails carries the mutable fields shared by create and update.
type EventDetails struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	Capacity    int       `json:"capacity"`
	Category    string    `json:"category"`
}

func removeFirst(list []string, v string) ([]string, bool) {
	i := slices.Index(list, v)
	if i < 0 {
		return list, false
	}
	return slices.Delete(list, i, i+1), true
}
