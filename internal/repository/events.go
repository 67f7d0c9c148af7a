package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/logger"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// EventManager owns the mapping from event id to Event. Listing order is the
// order events were created in this process; events loaded from storage come
// first, ordered by date.
type EventManager struct {
	store  EventStore
	events map[string]*model.Event
	order  []string
	newID  IDFunc
	now    Clock
}

// EventOption customises an EventManager.
type EventOption func(*EventManager)

// WithEventIDs overrides event id generation.
func WithEventIDs(fn IDFunc) EventOption {
	return func(m *EventManager) { m.newID = fn }
}

// WithClock overrides the clock used for the past-date check.
func WithClock(fn Clock) EventOption {
	return func(m *EventManager) { m.now = fn }
}

// NewEventManager loads the event collection from store.
func NewEventManager(ctx context.Context, store EventStore, opts ...EventOption) (*EventManager, error) {
	events, err := store.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	if events == nil {
		events = make(map[string]*model.Event)
	}

	order := make([]string, 0, len(events))
	for id := range events {
		order = append(order, id)
	}
	slices.SortFunc(order, func(a, b string) int {
		return cmp.Or(events[a].Date.Compare(events[b].Date), cmp.Compare(a, b))
	})

	m := &EventManager{store: store, events: events, order: order, newID: newUUID, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// CreateEvent adds a pending event. Dates before now are rejected.
func (m *EventManager) CreateEvent(ctx context.Context, d model.EventDetails, organizerID string) (string, error) {
	if d.Date.Before(m.now()) {
		return "", model.ErrEventInPast
	}

	id := m.newID()
	m.events[id] = &model.Event{
		ID:                id,
		Title:             d.Title,
		Description:       d.Description,
		Date:              d.Date,
		Venue:             d.Venue,
		Capacity:          d.Capacity,
		Category:          d.Category,
		OrganizerID:       organizerID,
		RegisteredUserIDs: []string{},
	}
	m.order = append(m.order, id)

	err := m.save(ctx, func() {
		delete(m.events, id)
		m.order = m.order[:len(m.order)-1]
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetEvent returns a copy of the event.
func (m *EventManager) GetEvent(id string) (*model.Event, bool) {
	e, ok := m.events[id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// ApproveEvent makes the event registrable.
func (m *EventManager) ApproveEvent(ctx context.Context, id string) error {
	e, ok := m.events[id]
	if !ok {
		return model.ErrEventNotFound
	}
	was := e.IsApproved
	e.Approve()
	return m.save(ctx, func() { e.IsApproved = was })
}

// DeleteEvent removes the event unconditionally.
func (m *EventManager) DeleteEvent(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return model.ErrEventNotFound
	}
	return m.DeleteEvents(ctx, []string{id})
}

// DeleteEvents removes every listed event that exists in a single save.
func (m *EventManager) DeleteEvents(ctx context.Context, ids []string) error {
	removed := make(map[string]*model.Event)
	for _, id := range ids {
		if e, ok := m.events[id]; ok {
			removed[id] = e
			delete(m.events, id)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	prevOrder := m.order
	m.order = slices.DeleteFunc(slices.Clone(m.order), func(id string) bool {
		_, gone := removed[id]
		return gone
	})

	return m.save(ctx, func() {
		for id, e := range removed {
			m.events[id] = e
		}
		m.order = prevOrder
	})
}

// UpdateEvent overwrites the mutable fields. Capacity may not drop below the
// current registrant count. With reapprove set, an approved event goes back
// to pending.
func (m *EventManager) UpdateEvent(ctx context.Context, id string, d model.EventDetails, reapprove bool) error {
	e, ok := m.events[id]
	if !ok {
		return model.ErrEventNotFound
	}
	if n := len(e.RegisteredUserIDs); d.Capacity < n {
		return &model.CapacityError{Registered: n}
	}

	prev := *e
	e.Title = d.Title
	e.Description = d.Description
	e.Date = d.Date
	e.Venue = d.Venue
	e.Capacity = d.Capacity
	e.Category = d.Category
	if reapprove {
		e.IsApproved = false
	}
	return m.save(ctx, func() { *e = prev })
}

// RegisterUserForEvent takes a seat for userID. A missing, unapproved or full
// event all yield ErrRegistrationRejected.
func (m *EventManager) RegisterUserForEvent(ctx context.Context, eventID, userID string) error {
	e, ok := m.events[eventID]
	if !ok || !e.IsApproved || !e.RegisterUser(userID) {
		return model.ErrRegistrationRejected
	}
	return m.save(ctx, func() {
		e.RegisteredUserIDs = e.RegisteredUserIDs[:len(e.RegisteredUserIDs)-1]
	})
}

// UnregisterUserFromEvent releases userID's seat.
func (m *EventManager) UnregisterUserFromEvent(ctx context.Context, eventID, userID string) error {
	e, ok := m.events[eventID]
	if !ok {
		return model.ErrEventNotFound
	}
	before := slices.Clone(e.RegisteredUserIDs)
	if !e.UnregisterUser(userID) {
		return model.ErrNotRegistered
	}
	return m.save(ctx, func() { e.RegisteredUserIDs = before })
}

// StripRegistrant removes userID from every listed event in a single save.
func (m *EventManager) StripRegistrant(ctx context.Context, userID string, eventIDs []string) (int, error) {
	snapshot := make(map[string][]string)
	removed := 0
	for _, eid := range eventIDs {
		e, ok := m.events[eid]
		if !ok {
			continue
		}
		if _, seen := snapshot[eid]; !seen {
			snapshot[eid] = slices.Clone(e.RegisteredUserIDs)
		}
		for e.UnregisterUser(userID) {
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	err := m.save(ctx, func() {
		for eid, list := range snapshot {
			m.events[eid].RegisteredUserIDs = list
		}
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// GetAllEvents returns copies of every event in listing order.
func (m *EventManager) GetAllEvents() []*model.Event {
	return m.filter(func(*model.Event) bool { return true })
}

// GetApprovedEvents returns the events open for registration.
func (m *EventManager) GetApprovedEvents() []*model.Event {
	return m.filter(func(e *model.Event) bool { return e.IsApproved })
}

// GetUnapprovedEvents returns the events awaiting approval.
func (m *EventManager) GetUnapprovedEvents() []*model.Event {
	return m.filter(func(e *model.Event) bool { return !e.IsApproved })
}

// GetEventsByOrganizer returns every event owned by organizerID, approved or not.
func (m *EventManager) GetEventsByOrganizer(organizerID string) []*model.Event {
	return m.filter(func(e *model.Event) bool { return e.OrganizerID == organizerID })
}

// GetEventsByCategory returns approved events in category.
func (m *EventManager) GetEventsByCategory(category string) []*model.Event {
	return m.filter(func(e *model.Event) bool { return e.IsApproved && e.Category == category })
}

// GetEventsForUser returns approved events userID holds a seat in.
func (m *EventManager) GetEventsForUser(userID string) []*model.Event {
	return m.filter(func(e *model.Event) bool { return e.IsApproved && e.HasRegistrant(userID) })
}

// GetEventsSortedByDate returns approved events stably sorted by date.
func (m *EventManager) GetEventsSortedByDate(ascending bool) []*model.Event {
	list := m.GetApprovedEvents()
	SortByDate(list, ascending)
	return list
}

// SortByDate stably sorts events by date. Ties keep their relative order in
// both directions.
func SortByDate(list []*model.Event, ascending bool) {
	slices.SortStableFunc(list, func(a, b *model.Event) int {
		if ascending {
			return a.Date.Compare(b.Date)
		}
		return b.Date.Compare(a.Date)
	})
}

func (m *EventManager) filter(keep func(*model.Event) bool) []*model.Event {
	var list []*model.Event
	for _, id := range m.order {
		if e := m.events[id]; keep(e) {
			list = append(list, e)
		}
	}
	return cloneEvents(list)
}

func (m *EventManager) save(ctx context.Context, undo func()) error {
	if err := m.store.SaveEvents(ctx, m.events); err != nil {
		undo()
		logger.ErrorContext(ctx, "failed to save events", "error", err)
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

// Restore puts back copies of previously captured events and saves. Events
// that had been deleted rejoin at the end of the listing order.
func (m *EventManager) Restore(ctx context.Context, snapshot []*model.Event) error {
	for _, e := range snapshot {
		if _, ok := m.events[e.ID]; !ok {
			m.order = append(m.order, e.ID)
		}
		m.events[e.ID] = e.Clone()
	}
	return m.save(ctx, func() {})
}
