package service

import (
	"testing"
	"time"

	"autoshop/internal/db"
	"autoshop/internal/entities"
	apperrors "autoshop/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	owner = entities.Actor{UserID: 7}
	other = entities.Actor{UserID: 8}
	admin = entities.Actor{UserID: 1, IsAdmin: true}
)

type appointmentFixture struct {
	svc          *AppointmentService
	repo         *fakeAppointmentRepo
	scheduleRepo *fakeScheduleRepo
	schedules    *ScheduleService
}

func newAppointmentFixture() *appointmentFixture {
	scheduleRepo := newFakeScheduleRepo()
	schedules := NewScheduleService(scheduleRepo, zap.NewNop().Sugar())
	repo := newFakeAppointmentRepo()
	return &appointmentFixture{
		svc:          NewAppointmentService(repo, schedules, zap.NewNop().Sugar()),
		repo:         repo,
		scheduleRepo: scheduleRepo,
		schedules:    schedules,
	}
}

func TestBookWithScheduleCopiesWindow(t *testing.T) {
	f := newAppointmentFixture()
	slot := seedSchedule(t, f.scheduleRepo, 2)

	a, err := f.svc.Book(owner, BookingInput{
		ScheduleID: &slot.ID,
		ServiceIDs: []int64{1, 3},
	})
	require.NoError(t, err)

	assert.Equal(t, db.StatusPending, a.Status)
	assert.Equal(t, owner.UserID, a.UserID)
	require.NotNil(t, a.ScheduleID)
	assert.Equal(t, slot.ID, *a.ScheduleID)
	assert.Equal(t, slot.ScheduleDate, a.AppointmentOn)
	assert.Equal(t, slot.StartTime, a.StartTime)
	assert.Equal(t, slot.EndTime, a.EndTime)

	stored, err := f.scheduleRepo.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentAppointments)
}

func TestBookFullScheduleSavesNothing(t *testing.T) {
	f := newAppointmentFixture()
	slot := seedSchedule(t, f.scheduleRepo, 1)
	_, err := f.schedules.Reserve(slot.ID)
	require.NoError(t, err)

	_, err = f.svc.Book(owner, BookingInput{ScheduleID: &slot.ID})
	assert.ErrorIs(t, err, apperrors.ErrSlotFull)

	all, err := f.repo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBookWithoutSchedule(t *testing.T) {
	f := newAppointmentFixture()
	on := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	a, err := f.svc.Book(owner, BookingInput{
		ServiceIDs: []int64{2},
		On:         on,
		StartTime:  "08:30",
		EndTime:    "09:30",
	})
	require.NoError(t, err)
	assert.Nil(t, a.ScheduleID)
	assert.Equal(t, on, a.AppointmentOn)
	assert.Equal(t, "08:30", a.StartTime)
	assert.Equal(t, db.StatusPending, a.Status)
}

func TestBookReleasesCapacityWhenSaveFails(t *testing.T) {
	f := newAppointmentFixture()
	slot := seedSchedule(t, f.scheduleRepo, 1)
	f.repo.failCreate = true

	_, err := f.svc.Book(owner, BookingInput{ScheduleID: &slot.ID})
	require.Error(t, err)

	stored, err := f.scheduleRepo.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentAppointments)
	assert.True(t, stored.Available)
}

func (f *appointmentFixture) book(t *testing.T, actor entities.Actor, scheduleID *int64) *db.Appointment {
	t.Helper()
	input := BookingInput{ScheduleID: scheduleID}
	if scheduleID == nil {
		input.On = time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
		input.StartTime = "09:00"
		input.EndTime = "10:00"
	}
	a, err := f.svc.Book(actor, input)
	require.NoError(t, err)
	return a
}

func TestTransitionRequiresAdmin(t *testing.T) {
	f := newAppointmentFixture()
	a := f.book(t, owner, nil)

	for _, target := range []db.AppointmentStatus{db.StatusConfirmed, db.StatusInProgress, db.StatusCompleted} {
		_, err := f.svc.Transition(a.ID, target, owner)
		assert.ErrorIs(t, err, apperrors.ErrForbidden, "target %s", target)
	}
}

func TestTransitionUnknownAppointment(t *testing.T) {
	f := newAppointmentFixture()
	_, err := f.svc.Transition(42, db.StatusConfirmed, admin)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTransitionInvalidFromTerminalState(t *testing.T) {
	f := newAppointmentFixture()
	a := f.book(t, owner, nil)
	_, err := f.svc.Transition(a.ID, db.StatusCancelled, owner)
	require.NoError(t, err)

	_, err = f.svc.Transition(a.ID, db.StatusConfirmed, admin)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestTransitionSkippingConfirmIsInvalid(t *testing.T) {
	f := newAppointmentFixture()
	a := f.book(t, owner, nil)

	_, err := f.svc.Transition(a.ID, db.StatusCompleted, admin)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestAdminLifecycleHappyPath(t *testing.T) {
	f := newAppointmentFixture()
	a := f.book(t, owner, nil)

	for _, target := range []db.AppointmentStatus{db.StatusConfirmed, db.StatusInProgress, db.StatusCompleted} {
		updated, err := f.svc.Transition(a.ID, target, admin)
		require.NoError(t, err)
		assert.Equal(t, target, updated.Status)
	}
}

func TestCancelReleasesHeldSlot(t *testing.T) {
	f := newAppointmentFixture()
	slot := seedSchedule(t, f.scheduleRepo, 1)
	a := f.book(t, owner, &slot.ID)

	updated, err := f.svc.Transition(a.ID, db.StatusCancelled, owner)
	require.NoError(t, err)
	assert.Equal(t, db.StatusCancelled, updated.Status)

	stored, err := f.scheduleRepo.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentAppointments)
	assert.True(t, stored.Available)
}

func TestCancelFromInProgressReleasesSlot(t *testing.T) {
	f := newAppointmentFixture()
	slot := seedSchedule(t, f.scheduleRepo, 1)
	a := f.book(t, owner, &slot.ID)

	_, err := f.svc.Transition(a.ID, db.StatusConfirmed, admin)
	require.NoError(t, err)
	_, err = f.svc.Transition(a.ID, db.StatusInProgress, admin)
	require.NoError(t, err)

	_, err = f.svc.Transition(a.ID, db.StatusCancelled, admin)
	require.NoError(t, err)

	stored, err := f.scheduleRepo.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentAppointments)
}

func TestCancelByAnotherUserForbidden(t *testing.T) {
	f := newAppointmentFixture()
	a := f.book(t, owner, nil)

	_, err := f.svc.Transition(a.ID, db.StatusCancelled, other)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// The admin may cancel anyone's appointment.
	_, err = f.svc.Transition(a.ID, db.StatusCancelled, admin)
	assert.NoError(t, err)
}

func TestGetForActor(t *testing.T) {
	f := newAppointmentFixture()
	a := f.book(t, owner, nil)

	got, err := f.svc.GetForActor(a.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = f.svc.GetForActor(a.ID, other)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.GetForActor(a.ID, admin)
	assert.NoError(t, err)
}

func TestListForActorOrdering(t *testing.T) {
	f := newAppointmentFixture()

	feb2 := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	first, err := f.svc.Book(owner, BookingInput{On: feb2, StartTime: "10:00", EndTime: "11:00"})
	require.NoError(t, err)
	second, err := f.svc.Book(owner, BookingInput{On: feb1, StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)
	third, err := f.svc.Book(owner, BookingInput{On: feb1, StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	// Date/time ascending, same-window ties keep insertion order. The same
	// ordering applies to the admin view.
	for _, actor := range []entities.Actor{owner, admin} {
		got := f.svc.ListForActor(actor)
		require.Len(t, got, 3)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, third.ID, got[1].ID)
		assert.Equal(t, first.ID, got[2].ID)
	}
}

func TestListForActorScopes(t *testing.T) {
	f := newAppointmentFixture()
	f.book(t, owner, nil)
	f.book(t, other, nil)

	assert.Len(t, f.svc.ListForActor(owner), 1)
	assert.Len(t, f.svc.ListForActor(other), 1)
	assert.Len(t, f.svc.ListForActor(admin), 2)
}

func TestListForActorSwallowsStoreErrors(t *testing.T) {
	f := newAppointmentFixture()
	f.book(t, owner, nil)
	f.repo.failList = true

	// Read-path store failures degrade to an empty result.
	assert.Empty(t, f.svc.ListForActor(owner))
	assert.Empty(t, f.svc.ListForActor(admin))
}
