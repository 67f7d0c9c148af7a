// Package service implements the use-case layer: it composes the user and
// event managers, enforces authorization, and keeps the two sides of every
// registration in agreement.
package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Shivanand-hulikatti/eventhub/internal/logger"
	"github.com/Shivanand-hulikatti/eventhub/internal/metrics"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/Shivanand-hulikatti/eventhub/internal/storage"
)

// AdminCredential is the account created when no administrator exists.
type AdminCredential struct {
	Username string
	Password string
	Email    string
}

// Options configures an EventManagementSystem.
type Options struct {
	Admin AdminCredential

	// ReapproveOnEdit sends an approved event back to pending when its
	// organizer edits it.
	ReapproveOnEdit bool

	UserOptions  []repository.UserOption
	EventOptions []repository.EventOption
}

// EventManagementSystem is the entry point for every operation. All methods
// are serialized by a single mutex, so concurrent callers observe each
// operation as one step.
type EventManagementSystem struct {
	mu              sync.Mutex
	users           *repository.UserManager
	events          *repository.EventManager
	reapproveOnEdit bool
}

// New loads both collections from gateway and makes sure an administrator
// account exists.
func New(ctx context.Context, gateway storage.Gateway, opts Options) (*EventManagementSystem, error) {
	users, err := repository.NewUserManager(ctx, gateway, opts.UserOptions...)
	if err != nil {
		return nil, err
	}
	events, err := repository.NewEventManager(ctx, gateway, opts.EventOptions...)
	if err != nil {
		return nil, err
	}

	s := &EventManagementSystem{
		users:           users,
		events:          events,
		reapproveOnEdit: opts.ReapproveOnEdit,
	}
	if _, _, err := s.EnsureAdmin(ctx, opts.Admin); err != nil {
		return nil, err
	}
	return s, nil
}

// EnsureAdmin creates the default administrator when no admin account exists.
// It is idempotent and reports whether an account was created.
func (s *EventManagementSystem) EnsureAdmin(ctx context.Context, cred AdminCredential) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if admins := s.users.GetUsersByRole(model.RoleAdmin); len(admins) > 0 {
		return admins[0].ID, false, nil
	}
	if cred.Username == "" || cred.Password == "" {
		return "", false, fmt.Errorf("bootstrap admin: credential is not configured")
	}

	id, err := s.users.AddUser(ctx, cred.Username, cred.Password, cred.Email, model.RoleAdmin)
	if err != nil {
		return "", false, fmt.Errorf("bootstrap admin: %w", err)
	}
	logger.InfoContext(ctx, "created default admin", "user_id", id, "username", cred.Username)
	return id, true, nil
}

// ─── Accounts ────────────────────────────────────────────────────────────────

// Login returns the id and role of the matching active account. The username
// is trimmed the same way RegisterUser and UpdateProfile store it.
func (s *EventManagementSystem) Login(username, password string) (string, model.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.users.Authenticate(strings.TrimSpace(username), password)
	if err != nil {
		return "", "", err
	}
	role, _ := s.users.RoleOf(id)
	return id, role, nil
}

// RegisterUser opens an account. An empty role means a regular user.
func (s *EventManagementSystem) RegisterUser(ctx context.Context, username, password, email, role string) (string, error) {
	in := accountInput{
		Username: strings.TrimSpace(username),
		Password: password,
		Email:    strings.TrimSpace(email),
		Role:     role,
	}
	if err := validateAccount(&in); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.AddUser(ctx, in.Username, in.Password, in.Email, model.ParseRole(in.Role))
}

// GetUser returns a copy of the user.
func (s *EventManagementSystem) GetUser(userID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.GetUser(userID)
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile changes the caller's own username and/or email.
func (s *EventManagementSystem) UpdateProfile(ctx context.Context, userID, username, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.UpdateProfile(ctx, userID, strings.TrimSpace(username), strings.TrimSpace(email))
}

// ListUsers returns every account. Admin only.
func (s *EventManagementSystem) ListUsers(adminID string) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasRole(adminID, model.RoleAdmin) {
		return nil, model.ErrAdminOnly
	}
	return s.users.GetAllUsers(), nil
}

// DeleteUser removes targetID. Deleting a user who owns events (normally an
// organizer) deletes every one of those events and strips them from
// registrants; deleting a regular user releases every seat they hold.
func (s *EventManagementSystem) DeleteUser(ctx context.Context, targetID, adminID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasRole(adminID, model.RoleAdmin) {
		logger.WarnContext(ctx, "user deletion denied", "actor_id", adminID, "target_id", targetID)
		return model.ErrAdminRequired
	}
	target, ok := s.users.GetUser(targetID)
	if !ok {
		return model.ErrUserNotFound
	}

	if target.IsRegular() {
		if err := s.releaseSeats(ctx, target); err != nil {
			return err
		}
	} else if err := s.cascadeOwner(ctx, target); err != nil {
		return err
	}

	logger.InfoContext(ctx, "user deleted", "user_id", targetID, "role", target.Role, "actor_id", adminID)
	return nil
}

// cascadeOwner deletes owner together with every event whose OrganizerID is
// owner, whatever the owner's role.
func (s *EventManagementSystem) cascadeOwner(ctx context.Context, org *model.User) error {
	owned := s.events.GetEventsByOrganizer(org.ID)
	eventIDs := make([]string, 0, len(owned))
	var registrants []string
	for _, e := range owned {
		eventIDs = append(eventIDs, e.ID)
		registrants = append(registrants, e.RegisteredUserIDs...)
	}
	slices.Sort(registrants)
	registrants = slices.Compact(registrants)

	userSnapshot := s.snapshotUsers(registrants)
	if _, err := s.users.StripRegistrations(ctx, registrants, eventIDs); err != nil {
		return err
	}
	if err := s.events.DeleteEvents(ctx, eventIDs); err != nil {
		s.compensateUsers(ctx, userSnapshot)
		return err
	}
	if err := s.users.DeleteUser(ctx, org.ID); err != nil {
		s.compensateEvents(ctx, owned)
		s.compensateUsers(ctx, userSnapshot)
		return err
	}

	if len(eventIDs) > 0 {
		metrics.CascadeDeletedEventsTotal.Add(float64(len(eventIDs)))
		logger.InfoContext(ctx, "owned events removed",
			"organizer_id", org.ID, "events", len(eventIDs), "registrants", len(registrants))
	}
	return nil
}

func (s *EventManagementSystem) releaseSeats(ctx context.Context, u *model.User) error {
	eventIDs := slices.Clone(u.RegisteredEventIDs)
	for _, e := range s.events.GetAllEvents() {
		if e.HasRegistrant(u.ID) && !slices.Contains(eventIDs, e.ID) {
			eventIDs = append(eventIDs, e.ID)
		}
	}

	eventSnapshot := s.snapshotEvents(eventIDs)
	if _, err := s.events.StripRegistrant(ctx, u.ID, eventIDs); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, u.ID); err != nil {
		s.compensateEvents(ctx, eventSnapshot)
		return err
	}
	return nil
}

// ─── Events ──────────────────────────────────────────────────────────────────

// CreateEvent adds a pending event owned by organizerID and records it on the
// organizer's owned list. Only organizers may create events.
func (s *EventManagementSystem) CreateEvent(ctx context.Context, d model.EventDetails, organizerID string) (string, error) {
	d = trimDetails(d)
	if err := validateEventDetails(&d); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasRole(organizerID, model.RoleOrganizer) {
		return "", model.ErrOrganizerRequired
	}

	id, err := s.events.CreateEvent(ctx, d, organizerID)
	if err != nil {
		return "", err
	}
	if err := s.users.AddOwnedEvent(ctx, organizerID, id); err != nil {
		if delErr := s.events.DeleteEvent(ctx, id); delErr != nil {
			logger.ErrorContext(ctx, "failed to roll back event creation", "event_id", id, "error", delErr)
		}
		return "", err
	}

	metrics.EventsCreatedTotal.Inc()
	logger.InfoContext(ctx, "event created", "event_id", id, "organizer_id", organizerID)
	return id, nil
}

// GetEvent returns a copy of the event.
func (s *EventManagementSystem) GetEvent(eventID string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events.GetEvent(eventID)
	if !ok {
		return nil, model.ErrEventNotFound
	}
	return e, nil
}

// ApproveEvent makes an event registrable. Only admins may approve.
func (s *EventManagementSystem) ApproveEvent(ctx context.Context, eventID, adminID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasRole(adminID, model.RoleAdmin) {
		logger.WarnContext(ctx, "approval denied", "actor_id", adminID, "event_id", eventID)
		return model.ErrApprovalDenied
	}
	if err := s.events.ApproveEvent(ctx, eventID); err != nil {
		return err
	}

	metrics.EventsApprovedTotal.Inc()
	logger.InfoContext(ctx, "event approved", "event_id", eventID, "actor_id", adminID)
	return nil
}

// UpdateEvent overwrites an event's details. Only its organizer may edit it.
func (s *EventManagementSystem) UpdateEvent(ctx context.Context, eventID string, d model.EventDetails, actingUserID string) error {
	d = trimDetails(d)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events.GetEvent(eventID)
	if !ok {
		return model.ErrEventNotFound
	}
	if e.OrganizerID != actingUserID {
		return model.ErrNotEventOwner
	}
	if n := len(e.RegisteredUserIDs); d.Capacity < n {
		return &model.CapacityError{Registered: n}
	}
	if err := validateEventDetails(&d); err != nil {
		return err
	}
	return s.events.UpdateEvent(ctx, eventID, d, s.reapproveOnEdit)
}

// GetAvailableEvents returns approved events, optionally limited to category
// and optionally sorted by ascending date.
func (s *EventManagementSystem) GetAvailableEvents(category string, sortByDate bool) []*model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []*model.Event
	if category != "" {
		list = s.events.GetEventsByCategory(category)
	} else {
		list = s.events.GetApprovedEvents()
	}
	if sortByDate {
		repository.SortByDate(list, true)
	}
	return list
}

// PendingEvents returns events awaiting approval. Admin only.
func (s *EventManagementSystem) PendingEvents(adminID string) ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasRole(adminID, model.RoleAdmin) {
		return nil, model.ErrAdminOnly
	}
	return s.events.GetUnapprovedEvents(), nil
}

// GetUserEvents returns the events organizerID owns, approved or not.
func (s *EventManagementSystem) GetUserEvents(organizerID string) []*model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.GetEventsByOrganizer(organizerID)
}

// ─── Registrations ───────────────────────────────────────────────────────────

// RegisterForEvent takes a seat for a regular user and records the event on
// the user's registration list. Either both sides change or neither does.
func (s *EventManagementSystem) RegisterForEvent(ctx context.Context, eventID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasRole(userID, model.RoleUser) {
		metrics.RecordRegistration(metrics.OutcomeDenied)
		return model.ErrRoleNotAllowed
	}
	if err := s.events.RegisterUserForEvent(ctx, eventID, userID); err != nil {
		metrics.RecordRegistration(metrics.OutcomeRejected)
		return err
	}
	if err := s.users.AddRegistration(ctx, userID, eventID); err != nil {
		if undoErr := s.events.UnregisterUserFromEvent(ctx, eventID, userID); undoErr != nil {
			logger.ErrorContext(ctx, "failed to roll back registration",
				"event_id", eventID, "user_id", userID, "error", undoErr)
		}
		metrics.RecordRegistration(metrics.OutcomeError)
		return err
	}

	metrics.RecordRegistration(metrics.OutcomeRegistered)
	return nil
}

// UnregisterFromEvent releases a regular user's seat on both sides.
func (s *EventManagementSystem) UnregisterFromEvent(ctx context.Context, eventID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasRole(userID, model.RoleUser) {
		metrics.RecordRegistration(metrics.OutcomeDenied)
		return model.ErrRoleNotAllowed
	}
	// The seat goes back from a snapshot, not through RegisterUserForEvent,
	// which would refuse an event that has since returned to pending.
	eventSnapshot := s.snapshotEvents([]string{eventID})
	if err := s.events.UnregisterUserFromEvent(ctx, eventID, userID); err != nil {
		return err
	}
	if err := s.users.RemoveRegistration(ctx, userID, eventID); err != nil {
		s.compensateEvents(ctx, eventSnapshot)
		metrics.RecordRegistration(metrics.OutcomeError)
		return err
	}

	metrics.RecordRegistration(metrics.OutcomeUnregistered)
	return nil
}

// GetUserRegistrations returns the event ids a regular user is registered
// for. Other roles and unknown users get an empty list.
func (s *EventManagementSystem) GetUserRegistrations(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.GetUser(userID)
	if !ok || !u.IsRegular() {
		return []string{}
	}
	return u.RegisteredEventIDs
}

// RegisteredEvents returns the approved events userID holds a seat in.
func (s *EventManagementSystem) RegisteredEvents(userID string) []*model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.GetEventsForUser(userID)
}

// GetEventRegistrations returns the user ids registered for eventID. When
// organizerID is set and does not own the event the list is empty.
func (s *EventManagementSystem) GetEventRegistrations(eventID, organizerID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events.GetEvent(eventID)
	if !ok {
		return []string{}
	}
	if organizerID != "" && e.OrganizerID != organizerID {
		return []string{}
	}
	return e.RegisteredUserIDs
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *EventManagementSystem) hasRole(userID string, role model.Role) bool {
	r, ok := s.users.RoleOf(userID)
	return ok && r == role
}

func (s *EventManagementSystem) snapshotUsers(ids []string) []*model.User {
	var snap []*model.User
	for _, id := range ids {
		if u, ok := s.users.GetUser(id); ok {
			snap = append(snap, u)
		}
	}
	return snap
}

func (s *EventManagementSystem) snapshotEvents(ids []string) []*model.Event {
	var snap []*model.Event
	for _, id := range ids {
		if e, ok := s.events.GetEvent(id); ok {
			snap = append(snap, e)
		}
	}
	return snap
}

func (s *EventManagementSystem) compensateUsers(ctx context.Context, snap []*model.User) {
	if len(snap) == 0 {
		return
	}
	if err := s.users.Restore(ctx, snap); err != nil {
		logger.ErrorContext(ctx, "failed to restore users after partial update", "error", err)
	}
}

func (s *EventManagementSystem) compensateEvents(ctx context.Context, snap []*model.Event) {
	if len(snap) == 0 {
		return
	}
	if err := s.events.Restore(ctx, snap); err != nil {
		logger.ErrorContext(ctx, "failed to restore events after partial update", "error", err)
	}
}

func trimDetails(d model.EventDetails) model.EventDetails {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Venue = strings.TrimSpace(d.Venue)
	d.Category = strings.TrimSpace(d.Category)
	return d
}
