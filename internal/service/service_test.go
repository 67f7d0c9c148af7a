package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/Shivanand-hulikatti/eventhub/internal/storage"
)

var testNow = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

var testAdmin = AdminCredential{Username: "admin", Password: "admin123", Email: "admin@example.com"}

func sequence(prefix string) repository.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newTestSystem(t *testing.T) (*EventManagementSystem, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return newTestSystemOn(t, store, false), store
}

func newTestSystemOn(t *testing.T, store *storage.MemoryStore, reapprove bool) *EventManagementSystem {
	t.Helper()
	sys, err := New(context.Background(), store, Options{
		Admin:           testAdmin,
		ReapproveOnEdit: reapprove,
		UserOptions:     []repository.UserOption{repository.WithUserIDs(sequence("u"))},
		EventOptions: []repository.EventOption{
			repository.WithEventIDs(sequence("e")),
			repository.WithClock(func() time.Time { return testNow }),
		},
	})
	require.NoError(t, err)
	return sys
}

func conf(capacity int) model.EventDetails {
	return model.EventDetails{
		Title:       "Conf",
		Description: "desc",
		Date:        testNow.Add(72 * time.Hour),
		Venue:       "Hall A",
		Capacity:    capacity,
		Category:    "Technology",
	}
}

type fixture struct {
	sys     *EventManagementSystem
	store   *storage.MemoryStore
	adminID string
	alice   string
	eventID string
}

// newFixture builds the organizer "alice" with one approved event of the
// given capacity.
func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()
	ctx := context.Background()
	sys, store := newTestSystem(t)

	adminID, _, err := sys.Login("admin", "admin123")
	require.NoError(t, err)
	alice, err := sys.RegisterUser(ctx, "alice", "pw", "a@x.com", "organizer")
	require.NoError(t, err)
	eventID, err := sys.CreateEvent(ctx, conf(capacity), alice)
	require.NoError(t, err)
	require.NoError(t, sys.ApproveEvent(ctx, eventID, adminID))

	return &fixture{sys: sys, store: store, adminID: adminID, alice: alice, eventID: eventID}
}

func (f *fixture) regular(t *testing.T, name string) string {
	t.Helper()
	id, err := f.sys.RegisterUser(context.Background(), name, "pw", name+"@x.com", "")
	require.NoError(t, err)
	return id
}

func (f *fixture) assertConsistent(t *testing.T) {
	t.Helper()
	assert.Empty(t, f.sys.CheckConsistency())
}

func TestNew_BootstrapsAdminOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	sys := newTestSystemOn(t, store, false)

	id, role, err := sys.Login("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, role)

	_, created, err := sys.EnsureAdmin(context.Background(), testAdmin)
	require.NoError(t, err)
	assert.False(t, created)

	reopened, err := New(context.Background(), store, Options{Admin: AdminCredential{Username: "other", Password: "x"}})
	require.NoError(t, err)
	users, err := reopened.ListUsers(id)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestNew_CorruptStoreFails(t *testing.T) {
	store := storage.NewMemoryStore()
	store.SetRaw(storage.EventsDocument, []byte("not json"))

	_, err := New(context.Background(), store, Options{Admin: testAdmin})
	assert.ErrorIs(t, err, storage.ErrCorruptDocument)
}

func TestNew_RequiresAdminCredentialWhenNoAdmin(t *testing.T) {
	_, err := New(context.Background(), storage.NewMemoryStore(), Options{})
	assert.Error(t, err)
}

func TestRegisterUser(t *testing.T) {
	sys, _ := newTestSystem(t)
	ctx := context.Background()

	id, err := sys.RegisterUser(ctx, "bob", "pw", "b@x.com", "")
	require.NoError(t, err)
	u, err := sys.GetUser(id)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)

	_, err = sys.RegisterUser(ctx, "bob", "pw2", "c@x.com", "organizer")
	require.Error(t, err)
	assert.Equal(t, "Username already exists", err.Error())
}

func TestRegisterUser_Validation(t *testing.T) {
	sys, _ := newTestSystem(t)

	_, err := sys.RegisterUser(context.Background(), "  ", "", "", "superuser")
	require.Error(t, err)

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "Username")
	assert.Contains(t, verrs, "Password")
	assert.Contains(t, verrs, "Email")
	assert.Contains(t, verrs, "Role")
}

func TestLogin(t *testing.T) {
	sys, _ := newTestSystem(t)
	ctx := context.Background()
	id, err := sys.RegisterUser(ctx, "org", "pw", "o@x.com", "organizer")
	require.NoError(t, err)

	got, role, err := sys.Login("org", "pw")
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, model.RoleOrganizer, role)

	_, _, err = sys.Login("org", "nope")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLogin_TrimsUsername(t *testing.T) {
	sys, _ := newTestSystem(t)
	id, err := sys.RegisterUser(context.Background(), "  bob ", "pw", "b@x.com", "")
	require.NoError(t, err)

	for _, name := range []string{"bob", " bob", "bob  "} {
		got, _, err := sys.Login(name, "pw")
		require.NoError(t, err, name)
		assert.Equal(t, id, got)
	}

	_, _, err = sys.Login("  bob ", " pw")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestScenario_CapacityAndAvailability(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	e, err := f.sys.GetEvent(f.eventID)
	require.NoError(t, err)
	assert.True(t, e.IsApproved)

	u1, u2, u3 := f.regular(t, "u1"), f.regular(t, "u2"), f.regular(t, "u3")
	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, u1))
	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, u2))
	assert.ErrorIs(t, f.sys.RegisterForEvent(ctx, f.eventID, u3), model.ErrRegistrationRejected)
	assert.Empty(t, f.sys.GetUserRegistrations(u3))

	available := f.sys.GetAvailableEvents("", false)
	require.Len(t, available, 1)
	assert.Equal(t, f.eventID, available[0].ID)
	assert.Zero(t, available[0].Remaining())
	f.assertConsistent(t)
}

func TestScenario_CapacityReductionRefused(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, f.regular(t, "u1")))
	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, f.regular(t, "u2")))

	d := conf(1)
	d.Title = "Renamed"
	err := f.sys.UpdateEvent(ctx, f.eventID, d, f.alice)
	require.Error(t, err)
	assert.Equal(t, "Cannot reduce capacity below current registrations (2)", err.Error())

	e, _ := f.sys.GetEvent(f.eventID)
	assert.Equal(t, "Conf", e.Title)
	assert.Equal(t, 2, e.Capacity)
}

func TestCreateEvent(t *testing.T) {
	sys, _ := newTestSystem(t)
	ctx := context.Background()
	alice, err := sys.RegisterUser(ctx, "alice", "pw", "a@x.com", "organizer")
	require.NoError(t, err)
	bob, err := sys.RegisterUser(ctx, "bob", "pw", "b@x.com", "user")
	require.NoError(t, err)

	id, err := sys.CreateEvent(ctx, conf(2), alice)
	require.NoError(t, err)

	e, err := sys.GetEvent(id)
	require.NoError(t, err)
	assert.False(t, e.IsApproved)
	u, _ := sys.GetUser(alice)
	assert.Equal(t, []string{id}, u.OwnedEventIDs)

	_, err = sys.CreateEvent(ctx, conf(2), bob)
	assert.ErrorIs(t, err, model.ErrForbidden)

	adminID, _, err := sys.Login("admin", "admin123")
	require.NoError(t, err)
	_, err = sys.CreateEvent(ctx, conf(2), adminID)
	assert.ErrorIs(t, err, model.ErrOrganizerRequired)

	past := conf(2)
	past.Date = testNow.Add(-time.Hour)
	_, err = sys.CreateEvent(ctx, past, alice)
	assert.ErrorIs(t, err, model.ErrEventInPast)
	u, _ = sys.GetUser(alice)
	assert.Len(t, u.OwnedEventIDs, 1, "failed creation leaves the organizer untouched")

	_, err = sys.CreateEvent(ctx, model.EventDetails{Date: testNow.Add(time.Hour)}, alice)
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "title")
	assert.Contains(t, verrs, "capacity")
}

func TestCreateEvent_UserSaveFailureRemovesEvent(t *testing.T) {
	sys, store := newTestSystem(t)
	ctx := context.Background()
	alice, err := sys.RegisterUser(ctx, "alice", "pw", "a@x.com", "organizer")
	require.NoError(t, err)

	store.FailSaves(storage.UsersDocument, errors.New("disk full"))
	_, err = sys.CreateEvent(ctx, conf(2), alice)
	require.Error(t, err)
	assert.Empty(t, sys.GetUserEvents(alice))
}

func TestApproveEvent_AdminOnly(t *testing.T) {
	sys, _ := newTestSystem(t)
	ctx := context.Background()
	alice, _ := sys.RegisterUser(ctx, "alice", "pw", "a@x.com", "organizer")
	id, err := sys.CreateEvent(ctx, conf(2), alice)
	require.NoError(t, err)

	assert.ErrorIs(t, sys.ApproveEvent(ctx, id, alice), model.ErrForbidden)
	assert.ErrorIs(t, sys.ApproveEvent(ctx, id, "ghost"), model.ErrForbidden)
	e, _ := sys.GetEvent(id)
	assert.False(t, e.IsApproved)

	adminID, _, _ := sys.Login("admin", "admin123")
	assert.ErrorIs(t, sys.ApproveEvent(ctx, "missing", adminID), model.ErrEventNotFound)

	pending, err := sys.PendingEvents(adminID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	_, err = sys.PendingEvents(alice)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestRegisterForEvent_UnapprovedEvent(t *testing.T) {
	sys, _ := newTestSystem(t)
	ctx := context.Background()
	alice, _ := sys.RegisterUser(ctx, "alice", "pw", "a@x.com", "organizer")
	bob, _ := sys.RegisterUser(ctx, "bob", "pw", "b@x.com", "user")
	id, err := sys.CreateEvent(ctx, conf(100), alice)
	require.NoError(t, err)

	assert.ErrorIs(t, sys.RegisterForEvent(ctx, id, bob), model.ErrRegistrationRejected)
	assert.Empty(t, sys.GetUserRegistrations(bob))
	assert.Empty(t, sys.GetEventRegistrations(id, ""))
}

func TestRegisterForEvent_RoleGate(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	assert.ErrorIs(t, f.sys.RegisterForEvent(ctx, f.eventID, f.alice), model.ErrRoleNotAllowed)
	assert.ErrorIs(t, f.sys.RegisterForEvent(ctx, f.eventID, f.adminID), model.ErrRoleNotAllowed)
	assert.ErrorIs(t, f.sys.UnregisterFromEvent(ctx, f.eventID, f.adminID), model.ErrRoleNotAllowed)
	assert.Empty(t, f.sys.GetEventRegistrations(f.eventID, ""))
}

func TestRegisterAndUnregister_BothSides(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	bob := f.regular(t, "bob")

	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, bob))
	assert.Equal(t, []string{bob}, f.sys.GetEventRegistrations(f.eventID, ""))
	assert.Equal(t, []string{f.eventID}, f.sys.GetUserRegistrations(bob))
	assert.Len(t, f.sys.RegisteredEvents(bob), 1)
	f.assertConsistent(t)

	require.NoError(t, f.sys.UnregisterFromEvent(ctx, f.eventID, bob))
	assert.Empty(t, f.sys.GetEventRegistrations(f.eventID, ""))
	assert.Empty(t, f.sys.GetUserRegistrations(bob))
	f.assertConsistent(t)
}

func TestUnregister_NotRegisteredMutatesNothing(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	bob := f.regular(t, "bob")
	userSaves := f.store.Saves(storage.UsersDocument)
	eventSaves := f.store.Saves(storage.EventsDocument)

	assert.ErrorIs(t, f.sys.UnregisterFromEvent(ctx, f.eventID, bob), model.ErrNotRegistered)
	assert.ErrorIs(t, f.sys.UnregisterFromEvent(ctx, "missing", bob), model.ErrEventNotFound)

	assert.Equal(t, userSaves, f.store.Saves(storage.UsersDocument))
	assert.Equal(t, eventSaves, f.store.Saves(storage.EventsDocument))
}

func TestRegisterForEvent_UserSaveFailureRollsBackEventSide(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	bob := f.regular(t, "bob")

	f.store.FailSaves(storage.UsersDocument, errors.New("disk full"))
	require.Error(t, f.sys.RegisterForEvent(ctx, f.eventID, bob))

	assert.Empty(t, f.sys.GetEventRegistrations(f.eventID, ""))
	assert.Empty(t, f.sys.GetUserRegistrations(bob))

	stored, err := f.store.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored[f.eventID].RegisteredUserIDs)
}

func TestUnregister_UserSaveFailureRestoresSeat(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	bob := f.regular(t, "bob")
	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, bob))

	f.store.FailSaves(storage.UsersDocument, errors.New("disk full"))
	require.Error(t, f.sys.UnregisterFromEvent(ctx, f.eventID, bob))

	assert.Equal(t, []string{bob}, f.sys.GetEventRegistrations(f.eventID, ""))
	assert.Equal(t, []string{f.eventID}, f.sys.GetUserRegistrations(bob))
}

func TestUnregister_UserSaveFailureOnPendingEventRestoresSeat(t *testing.T) {
	store := storage.NewMemoryStore()
	sys := newTestSystemOn(t, store, true)
	ctx := context.Background()
	adminID, _, _ := sys.Login("admin", "admin123")
	alice, _ := sys.RegisterUser(ctx, "alice", "pw", "a@x.com", "organizer")
	bob, _ := sys.RegisterUser(ctx, "bob", "pw", "b@x.com", "user")
	id, err := sys.CreateEvent(ctx, conf(2), alice)
	require.NoError(t, err)
	require.NoError(t, sys.ApproveEvent(ctx, id, adminID))
	require.NoError(t, sys.RegisterForEvent(ctx, id, bob))

	// The edit sends the event back to pending while bob keeps his seat.
	require.NoError(t, sys.UpdateEvent(ctx, id, conf(3), alice))
	e, _ := sys.GetEvent(id)
	require.False(t, e.IsApproved)

	store.FailSaves(storage.UsersDocument, errors.New("disk full"))
	require.Error(t, sys.UnregisterFromEvent(ctx, id, bob))
	store.FailSaves(storage.UsersDocument, nil)

	assert.Equal(t, []string{bob}, sys.GetEventRegistrations(id, ""))
	assert.Equal(t, []string{id}, sys.GetUserRegistrations(bob))
	assert.Empty(t, sys.CheckConsistency())

	stored, err := store.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{bob}, stored[id].RegisteredUserIDs)
}

func TestUpdateEvent(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	other, err := f.sys.RegisterUser(ctx, "carol", "pw", "c@x.com", "organizer")
	require.NoError(t, err)

	assert.ErrorIs(t, f.sys.UpdateEvent(ctx, "missing", conf(2), f.alice), model.ErrEventNotFound)

	err = f.sys.UpdateEvent(ctx, f.eventID, conf(3), other)
	require.Error(t, err)
	assert.Equal(t, "You can only edit your own events", err.Error())

	d := conf(10)
	d.Venue = "Hall B"
	require.NoError(t, f.sys.UpdateEvent(ctx, f.eventID, d, f.alice))
	e, _ := f.sys.GetEvent(f.eventID)
	assert.Equal(t, "Hall B", e.Venue)
	assert.Equal(t, 10, e.Capacity)
	assert.True(t, e.IsApproved, "edits keep approval by default")
}

func TestUpdateEvent_ReapproveOnEdit(t *testing.T) {
	store := storage.NewMemoryStore()
	sys := newTestSystemOn(t, store, true)
	ctx := context.Background()
	adminID, _, _ := sys.Login("admin", "admin123")
	alice, _ := sys.RegisterUser(ctx, "alice", "pw", "a@x.com", "organizer")
	id, err := sys.CreateEvent(ctx, conf(2), alice)
	require.NoError(t, err)
	require.NoError(t, sys.ApproveEvent(ctx, id, adminID))

	require.NoError(t, sys.UpdateEvent(ctx, id, conf(4), alice))
	e, _ := sys.GetEvent(id)
	assert.False(t, e.IsApproved)
}

func TestGetEventRegistrations_OwnerFilter(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	bob := f.regular(t, "bob")
	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, bob))

	assert.Equal(t, []string{bob}, f.sys.GetEventRegistrations(f.eventID, f.alice))
	assert.Empty(t, f.sys.GetEventRegistrations(f.eventID, "someone-else"))
	assert.Empty(t, f.sys.GetEventRegistrations("missing", ""))
}

func TestGetAvailableEvents_FilterAndSort(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	sooner := conf(5)
	sooner.Title = "Gig"
	sooner.Category = "Music"
	sooner.Date = testNow.Add(24 * time.Hour)
	gig, err := f.sys.CreateEvent(ctx, sooner, f.alice)
	require.NoError(t, err)
	require.NoError(t, f.sys.ApproveEvent(ctx, gig, f.adminID))

	hidden := conf(5)
	hidden.Category = "Music"
	_, err = f.sys.CreateEvent(ctx, hidden, f.alice)
	require.NoError(t, err)

	all := f.sys.GetAvailableEvents("", false)
	require.Len(t, all, 2)
	assert.Equal(t, f.eventID, all[0].ID)

	sorted := f.sys.GetAvailableEvents("", true)
	require.Len(t, sorted, 2)
	assert.Equal(t, gig, sorted[0].ID)

	music := f.sys.GetAvailableEvents("Music", false)
	require.Len(t, music, 1)
	assert.Equal(t, gig, music[0].ID)

	assert.Len(t, f.sys.GetUserEvents(f.alice), 3)
}

func TestDeleteUser_OrganizerCascade(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	second, err := f.sys.CreateEvent(ctx, conf(5), f.alice)
	require.NoError(t, err)
	require.NoError(t, f.sys.ApproveEvent(ctx, second, f.adminID))

	otherOrg, _ := f.sys.RegisterUser(ctx, "carol", "pw", "c@x.com", "organizer")
	keep, err := f.sys.CreateEvent(ctx, conf(5), otherOrg)
	require.NoError(t, err)
	require.NoError(t, f.sys.ApproveEvent(ctx, keep, f.adminID))

	bob, amy := f.regular(t, "bob"), f.regular(t, "amy")
	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, bob))
	require.NoError(t, f.sys.RegisterForEvent(ctx, second, bob))
	require.NoError(t, f.sys.RegisterForEvent(ctx, keep, bob))
	require.NoError(t, f.sys.RegisterForEvent(ctx, second, amy))

	require.NoError(t, f.sys.DeleteUser(ctx, f.alice, f.adminID))

	_, err = f.sys.GetUser(f.alice)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
	_, err = f.sys.GetEvent(f.eventID)
	assert.ErrorIs(t, err, model.ErrEventNotFound)
	_, err = f.sys.GetEvent(second)
	assert.ErrorIs(t, err, model.ErrEventNotFound)

	assert.Equal(t, []string{keep}, f.sys.GetUserRegistrations(bob))
	assert.Empty(t, f.sys.GetUserRegistrations(amy))
	f.assertConsistent(t)
}

func TestDeleteUser_OrganizerCascadeRollsBackOnEventSaveFailure(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	bob := f.regular(t, "bob")
	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, bob))

	f.store.FailSaves(storage.EventsDocument, errors.New("disk full"))
	require.Error(t, f.sys.DeleteUser(ctx, f.alice, f.adminID))
	f.store.FailSaves(storage.EventsDocument, nil)

	_, err := f.sys.GetUser(f.alice)
	assert.NoError(t, err)
	assert.Equal(t, []string{f.eventID}, f.sys.GetUserRegistrations(bob))
	f.assertConsistent(t)
}

func TestDeleteUser_RegularUserReleasesSeats(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	bob, amy := f.regular(t, "bob"), f.regular(t, "amy")
	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, bob))
	assert.ErrorIs(t, f.sys.RegisterForEvent(ctx, f.eventID, amy), model.ErrRegistrationRejected)

	require.NoError(t, f.sys.DeleteUser(ctx, bob, f.adminID))

	assert.Empty(t, f.sys.GetEventRegistrations(f.eventID, ""))
	require.NoError(t, f.sys.RegisterForEvent(ctx, f.eventID, amy))
	f.assertConsistent(t)
}

func TestDeleteUser_AdminOwningEventsCascades(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	// An admin-owned event can only come from stored data; CreateEvent
	// refuses admins.
	admin := model.NewUser("a1", "admin", "admin123", "admin@example.com", model.RoleAdmin)
	other := model.NewUser("a2", "root", "pw", "root@example.com", model.RoleAdmin)
	bob := model.NewUser("u1", "bob", "pw", "b@x.com", model.RoleUser)
	bob.AddRegistration("e1")
	require.NoError(t, store.SaveUsers(ctx, map[string]*model.User{"a1": admin, "a2": other, "u1": bob}))
	require.NoError(t, store.SaveEvents(ctx, map[string]*model.Event{
		"e1": {ID: "e1", Title: "Conf", Date: testNow.Add(time.Hour), Capacity: 2,
			OrganizerID: "a2", IsApproved: true, RegisteredUserIDs: []string{"u1"}},
	}))

	sys := newTestSystemOn(t, store, false)
	require.Empty(t, sys.CheckConsistency())

	require.NoError(t, sys.DeleteUser(ctx, "a2", "a1"))

	_, err := sys.GetEvent("e1")
	assert.ErrorIs(t, err, model.ErrEventNotFound)
	assert.Empty(t, sys.GetUserRegistrations("u1"))
	assert.Empty(t, sys.CheckConsistency())
}

func TestDeleteUser_AdminWithoutEvents(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	second, err := f.sys.RegisterUser(ctx, "root", "pw", "r@x.com", "admin")
	require.NoError(t, err)

	require.NoError(t, f.sys.DeleteUser(ctx, second, f.adminID))

	_, err = f.sys.GetUser(second)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
	_, err = f.sys.GetEvent(f.eventID)
	assert.NoError(t, err)
	f.assertConsistent(t)
}

func TestDeleteUser_Authorization(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	bob := f.regular(t, "bob")

	err := f.sys.DeleteUser(ctx, bob, f.alice)
	require.Error(t, err)
	assert.Equal(t, "Only admin can delete users", err.Error())

	assert.ErrorIs(t, f.sys.DeleteUser(ctx, "ghost", f.adminID), model.ErrUserNotFound)

	_, err = f.sys.GetUser(bob)
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	sys, _ := newTestSystem(t)
	ctx := context.Background()
	bob, _ := sys.RegisterUser(ctx, "bob", "pw", "b@x.com", "")

	assert.ErrorIs(t, sys.UpdateProfile(ctx, bob, "admin", ""), model.ErrUsernameExists)
	require.NoError(t, sys.UpdateProfile(ctx, bob, " robert ", ""))

	u, _ := sys.GetUser(bob)
	assert.Equal(t, "robert", u.Username)
	assert.Equal(t, "b@x.com", u.Email)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t, 1)
	f.regular(t, "bob")

	users, err := f.sys.ListUsers(f.adminID)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = f.sys.ListUsers(f.alice)
	assert.ErrorIs(t, err, model.ErrForbidden)
}
