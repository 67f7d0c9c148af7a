package model

import "time"

// RegisterUserRequest is the payload for creating an account.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// EventRequest is the payload for creating or updating an event.
type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	Capacity    int       `json:"capacity"`
	Category    string    `json:"category"`
}

// Details converts the request into the domain field set.
func (r EventRequest) Details() EventDetails {
	return EventDetails(r)
}

// ProfileRequest updates username and/or email; empty fields are left alone.
type ProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// EventView is an event together with its remaining seat count.
type EventView struct {
	*Event
	SeatsAvailable int `json:"seats_available"`
}

// NewEventView wraps e for rendering.
func NewEventView(e *Event) EventView {
	return EventView{Event: e, SeatsAvailable: e.Remaining()}
}

// MessageResponse is a standard JSON success envelope.
type MessageResponse struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Violation describes one broken link in the user/event registration relation.
type Violation struct {
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
	Reason  string `json:"reason"`
}
