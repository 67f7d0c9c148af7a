package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// userRecord is the on-disk shape of a user. Role-specific lists are only
// written for the role that owns them.
type userRecord struct {
	UserID           string   `json:"user_id"`
	Username         string   `json:"username"`
	Password         string   `json:"password"`
	Email            string   `json:"email"`
	IsActive         bool     `json:"is_active"`
	Role             string   `json:"role"`
	Events           []string `json:"events,omitempty"`
	RegisteredEvents []string `json:"registered_events,omitempty"`
}

type eventRecord struct {
	EventID         string    `json:"event_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            eventTime `json:"date"`
	Venue           string    `json:"venue"`
	Capacity        int       `json:"capacity"`
	Category        string    `json:"category"`
	OrganizerID     string    `json:"organizer_id"`
	IsApproved      bool      `json:"is_approved"`
	RegisteredUsers []string  `json:"registered_users"`
}

// eventTime writes RFC 3339 with sub-second precision and also reads ISO 8601 values without a zone,
// which are taken as local time.
type eventTime struct {
	time.Time
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t eventTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *eventTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		var (
			parsed time.Time
			err    error
		)
		if layout == time.RFC3339Nano {
			parsed, err = time.Parse(layout, s)
		} else {
			parsed, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised date %q", s)
}

func toUserRecord(u *model.User) userRecord {
	rec := userRecord{
		UserID:   u.ID,
		Username: u.Username,
		Password: u.Password,
		Email:    u.Email,
		IsActive: u.IsActive,
		Role:     string(u.Role),
	}
	switch u.Role {
	case model.RoleOrganizer:
		rec.Events = nonNil(u.OwnedEventIDs)
	case model.RoleUser:
		rec.RegisteredEvents = nonNil(u.RegisteredEventIDs)
	}
	return rec
}

func (r userRecord) toModel(key string) *model.User {
	id := r.UserID
	if id == "" {
		id = key
	}
	u := model.NewUser(id, r.Username, r.Password, r.Email, model.ParseRole(r.Role))
	u.IsActive = r.IsActive
	switch u.Role {
	case model.RoleOrganizer:
		u.OwnedEventIDs = nonNil(r.Events)
	case model.RoleUser:
		u.RegisteredEventIDs = nonNil(r.RegisteredEvents)
	}
	return u
}

func toEventRecord(e *model.Event) eventRecord {
	return eventRecord{
		EventID:         e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Date:            eventTime{e.Date},
		Venue:           e.Venue,
		Capacity:        e.Capacity,
		Category:        e.Category,
		OrganizerID:     e.OrganizerID,
		IsApproved:      e.IsApproved,
		RegisteredUsers: nonNil(e.RegisteredUserIDs),
	}
}

func (r eventRecord) toModel(key string) *model.Event {
	id := r.EventID
	if id == "" {
		id = key
	}
	return &model.Event{
		ID:                id,
		Title:             r.Title,
		Description:       r.Description,
		Date:              r.Date.Time,
		Venue:             r.Venue,
		Capacity:          r.Capacity,
		Category:          r.Category,
		OrganizerID:       r.OrganizerID,
		IsApproved:        r.IsApproved,
		RegisteredUserIDs: nonNil(r.RegisteredUsers),
	}
}

// EncodeUsers renders the user collection as an indented JSON object keyed by id.
func EncodeUsers(users map[string]*model.User) ([]byte, error) {
	doc := make(map[string]userRecord, len(users))
	for id, u := range users {
		doc[id] = toUserRecord(u)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeUsers parses a user document. Empty input is an empty collection.
func DecodeUsers(data []byte) (map[string]*model.User, error) {
	users := make(map[string]*model.User)
	if len(bytes.TrimSpace(data)) == 0 {
		return users, nil
	}
	var doc map[string]userRecord
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: users: %v", ErrCorruptDocument, err)
	}
	for id, rec := range doc {
		users[id] = rec.toModel(id)
	}
	return users, nil
}

// EncodeEvents renders the event collection as an indented JSON object keyed by id.
func EncodeEvents(events map[string]*model.Event) ([]byte, error) {
	doc := make(map[string]eventRecord, len(events))
	for id, e := range events {
		doc[id] = toEventRecord(e)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeEvents parses an event document. Empty input is an empty collection.
func DecodeEvents(data []byte) (map[string]*model.Event, error) {
	events := make(map[string]*model.Event)
	if len(bytes.TrimSpace(data)) == 0 {
		return events, nil
	}
	var doc map[string]eventRecord
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: events: %v", ErrCorruptDocument, err)
	}
	for id, rec := range doc {
		events[id] = rec.toModel(id)
	}
	return events, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
