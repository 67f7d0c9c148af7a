package model

import (
	"errors"
	"fmt"
)

// Outcome messages surfaced to callers verbatim.
const (
	MsgUserCreated  = "User created successfully"
	MsgUserDeleted  = "User deleted successfully"
	MsgEventCreated = "Event created successfully"
	MsgEventUpdated = "Event updated successfully"
)

var (
	// ErrUsernameExists is returned when another account already uses the username.
	ErrUsernameExists = errors.New("Username already exists")

	// ErrEventInPast is returned when an event is created with a date before now.
	ErrEventInPast = errors.New("Event date cannot be before today")

	// ErrEventNotFound is returned for unknown event ids.
	ErrEventNotFound = errors.New("Event not found")

	// ErrUserNotFound is returned for unknown user ids.
	ErrUserNotFound = errors.New("User not found")

	// ErrRegistrationRejected covers a missing, unapproved or full event.
	ErrRegistrationRejected = errors.New("Registration failed. Event may be full or not approved")

	// ErrNotRegistered is returned when unregistering a user who holds no seat.
	ErrNotRegistered = errors.New("User is not registered for this event")

	// ErrInvalidCredentials is returned on a failed login, including inactive accounts.
	ErrInvalidCredentials = errors.New("Invalid username or password")

	// ErrCapacityBelowRegistrations is the errors.Is target for *CapacityError.
	ErrCapacityBelowRegistrations = errors.New("capacity below current registrations")

	// ErrForbidden is the errors.Is target for every authorization failure below.
	ErrForbidden = errors.New("forbidden")
)

// Authorization failures. Each matches ErrForbidden under errors.Is.
var (
	ErrAdminRequired     error = &forbiddenError{"Only admin can delete users"}
	ErrApprovalDenied    error = &forbiddenError{"Only admin can approve events"}
	ErrAdminOnly         error = &forbiddenError{"Only admin can access this resource"}
	ErrNotEventOwner     error = &forbiddenError{"You can only edit your own events"}
	ErrOrganizerRequired error = &forbiddenError{"Only organizers can create events"}
	ErrRoleNotAllowed    error = &forbiddenError{"Only regular users can register for events"}
)

type forbiddenError struct {
	msg string
}

func (e *forbiddenError) Error() string { return e.msg }

func (e *forbiddenError) Is(target error) bool { return target == ErrForbidden }

// CapacityError reports an attempt to shrink capacity under the registrant count.
type CapacityError struct {
	Registered int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Cannot reduce capacity below current registrations (%d)", e.Registered)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityBelowRegistrations
}
