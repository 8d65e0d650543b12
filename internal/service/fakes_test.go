package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"autoshop/internal/db"
	apperrors "autoshop/internal/errors"
)

// In-memory repository fakes shared by the service tests.

type fakeScheduleRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]db.Schedule
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{items: make(map[int64]db.Schedule)}
}

func (r *fakeScheduleRepo) GetByID(id int64) (*db.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("schedule %d: %w", id, apperrors.ErrNotFound)
	}
	copied := s
	return &copied, nil
}

func (r *fakeScheduleRepo) Create(s *db.Schedule) (*db.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	r.items[s.ID] = *s
	copied := *s
	return &copied, nil
}

func (r *fakeScheduleRepo) Update(s *db.Schedule) (*db.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.ID]; !ok {
		return nil, fmt.Errorf("schedule %d: %w", s.ID, apperrors.ErrNotFound)
	}
	r.items[s.ID] = *s
	copied := *s
	return &copied, nil
}

func (r *fakeScheduleRepo) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeScheduleRepo) FindByDate(date time.Time) ([]db.Schedule, error) {
	return r.filter(func(s db.Schedule) bool { return s.ScheduleDate.Equal(date) }), nil
}

func (r *fakeScheduleRepo) FindAvailableFrom(date time.Time) ([]db.Schedule, error) {
	return r.filter(func(s db.Schedule) bool { return s.Available && !s.ScheduleDate.Before(date) }), nil
}

func (r *fakeScheduleRepo) FindAllFrom(date time.Time) ([]db.Schedule, error) {
	return r.filter(func(s db.Schedule) bool { return !s.ScheduleDate.Before(date) }), nil
}

func (r *fakeScheduleRepo) filter(keep func(db.Schedule) bool) []db.Schedule {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db.Schedule
	for id := int64(1); id <= r.nextID; id++ {
		if s, ok := r.items[id]; ok && keep(s) {
			out = append(out, s)
		}
	}
	return out
}

type fakeAppointmentRepo struct {
	mu         sync.Mutex
	nextID     int64
	items      map[int64]db.Appointment
	failCreate bool
	failList   bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: make(map[int64]db.Appointment)}
}

func (r *fakeAppointmentRepo) GetByID(id int64) (*db.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("appointment %d: %w", id, apperrors.ErrNotFound)
	}
	copied := a
	return &copied, nil
}

func (r *fakeAppointmentRepo) Create(a *db.Appointment) (*db.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return nil, errors.New("insert failed")
	}
	r.nextID++
	a.ID = r.nextID
	r.items[a.ID] = *a
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(id int64, status db.AppointmentStatus) (*db.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("appointment %d: %w", id, apperrors.ErrNotFound)
	}
	a.Status = status
	r.items[id] = a
	copied := a
	return &copied, nil
}

func (r *fakeAppointmentRepo) FindAll() ([]db.Appointment, error) {
	if r.failList {
		return nil, errors.New("query failed")
	}
	return r.all(func(db.Appointment) bool { return true }), nil
}

func (r *fakeAppointmentRepo) FindByUser(userID int64) ([]db.Appointment, error) {
	if r.failList {
		return nil, errors.New("query failed")
	}
	return r.all(func(a db.Appointment) bool { return a.UserID == userID }), nil
}

// all returns appointments in insertion (id) order.
func (r *fakeAppointmentRepo) all(keep func(db.Appointment) bool) []db.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db.Appointment
	for id := int64(1); id <= r.nextID; id++ {
		if a, ok := r.items[id]; ok && keep(a) {
			out = append(out, a)
		}
	}
	return out
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]db.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]db.User)}
}

func (r *fakeUserRepo) GetByEmail(email string) (*db.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	copied := u
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(id int64) (*db.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
}

func (r *fakeUserRepo) Create(email, fullName, passwordHash string, isAdmin bool) (*db.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u := db.User{ID: r.nextID, Email: email, FullName: fullName, PasswordHash: passwordHash, IsAdmin: isAdmin}
	r.users[email] = u
	copied := u
	return &copied, nil
}

type fakeJobRepo struct {
	pastEndIDs []int64
	updated    []int64
	status     db.AppointmentStatus
}

func (r *fakeJobRepo) GetInProgressAppointmentIDsPastEndTime() ([]int64, error) {
	return r.pastEndIDs, nil
}

func (r *fakeJobRepo) UpdateAppointmentStatuses(ids []int64, status db.AppointmentStatus) (int64, error) {
	r.updated = append(r.updated, ids...)
	r.status = status
	return int64(len(ids)), nil
}
