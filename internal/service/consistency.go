package service

import (
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// CheckConsistency walks both collections and reports every broken link in
// the registration relation, every over-capacity event and every event whose
// organizer no longer exists. An empty result means the data is consistent.
func (s *EventManagementSystem) CheckConsistency() []model.Violation {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.users.GetAllUsers()
	events := s.events.GetAllEvents()

	byUser := make(map[string]*model.User, len(users))
	for _, u := range users {
		byUser[u.ID] = u
	}
	byEvent := make(map[string]*model.Event, len(events))
	for _, e := range events {
		byEvent[e.ID] = e
	}

	violations := []model.Violation{}
	for _, u := range users {
		if !u.IsRegular() {
			continue
		}
		for _, eid := range u.RegisteredEventIDs {
			e, ok := byEvent[eid]
			switch {
			case !ok:
				violations = append(violations, model.Violation{UserID: u.ID, EventID: eid, Reason: "user registered for missing event"})
			case !e.HasRegistrant(u.ID):
				violations = append(violations, model.Violation{UserID: u.ID, EventID: eid, Reason: "event does not list user"})
			}
		}
	}

	for _, e := range events {
		if len(e.RegisteredUserIDs) > e.Capacity {
			violations = append(violations, model.Violation{
				EventID: e.ID,
				Reason:  fmt.Sprintf("%d registrants exceed capacity %d", len(e.RegisteredUserIDs), e.Capacity),
			})
		}
		if _, ok := byUser[e.OrganizerID]; !ok {
			violations = append(violations, model.Violation{UserID: e.OrganizerID, EventID: e.ID, Reason: "organizer missing"})
		}
		for _, uid := range e.RegisteredUserIDs {
			u, ok := byUser[uid]
			switch {
			case !ok:
				violations = append(violations, model.Violation{UserID: uid, EventID: e.ID, Reason: "event lists missing user"})
			case !u.IsRegular():
				violations = append(violations, model.Violation{UserID: uid, EventID: e.ID, Reason: "event lists non-regular user"})
			case !u.IsRegisteredFor(e.ID):
				violations = append(violations, model.Violation{UserID: uid, EventID: e.ID, Reason: "user does not list event"})
			}
		}
	}
	return violations
}
