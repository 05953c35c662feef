// Package crm owns the in-memory CRM state: the session, users, captured
// leads and attendance records. Every mutation is mirrored to a Persister.
package crm

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"fieldcrm/internal/logger"
	"fieldcrm/internal/metrics"
	"fieldcrm/internal/models"
	"fieldcrm/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// Persister receives the full value of a slot after each mutation.
type Persister interface {
	Write(ctx context.Context, key string, value any) error
}

// Snapshot is the state the store starts from.
type Snapshot struct {
	CurrentUser *models.AuthenticatedUser
	Users       []models.User
	Customers   []models.CustomerData
	Attendance  []models.AttendanceRecord
}

type Store struct {
	mu sync.RWMutex

	persist  Persister
	ids      IDGenerator
	now      func() time.Time
	loc      *time.Location
	log      *logger.Logger
	metrics  *metrics.Recorder
	hashCost int
	seed     bool

	current    *models.AuthenticatedUser
	users      []models.User
	customers  []models.CustomerData
	attendance []models.AttendanceRecord
}

type Option func(*Store)

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Store) { s.metrics = m }
}

// WithHashCost sets the bcrypt cost for stored passwords.
func WithHashCost(cost int) Option {
	return func(s *Store) { s.hashCost = cost }
}

func WithSeedUsers(enabled bool) Option {
	return func(s *Store) { s.seed = enabled }
}

// New builds a store over snap. When the user collection is empty and seeding
// is enabled, the default Admin and Agent accounts are inserted.
func New(ctx context.Context, p Persister, snap Snapshot, opts ...Option) (*Store, error) {
	s := &Store{
		persist:  p,
		ids:      UUIDGenerator{},
		now:      time.Now,
		loc:      time.Local,
		log:      logger.Nop(),
		hashCost: bcrypt.DefaultCost,
		seed:     true,

		current:    snap.CurrentUser,
		users:      nonNil(snap.Users),
		customers:  nonNil(snap.Customers),
		attendance: nonNil(snap.Attendance),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.seed && len(s.users) == 0 {
		if err := s.seedUsers(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load reads the four slots and builds a store that writes back to them.
func Load(ctx context.Context, slots *storage.Slots, opts ...Option) (*Store, error) {
	snap := Snapshot{
		CurrentUser: storage.Read[*models.AuthenticatedUser](ctx, slots, storage.KeyCurrentUser, nil),
		Users:       storage.Read(ctx, slots, storage.KeyUsers, []models.User{}),
		Customers:   storage.Read(ctx, slots, storage.KeyCustomerData, []models.CustomerData{}),
		Attendance:  storage.Read(ctx, slots, storage.KeyAttendanceRecords, []models.AttendanceRecord{}),
	}
	return New(ctx, slots, snap, opts...)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// save mirrors one slot. Failures are logged and counted; the in-memory
// state stays authoritative.
func (s *Store) save(ctx context.Context, key string, value any) {
	if err := s.persist.Write(ctx, key, value); err != nil {
		s.log.Error(s.log.WithField(ctx, "slot", key), "crm.persist_failed", err)
		s.metrics.StorageWriteFailed(key)
	}
}

// Login authenticates loginID/secret. It succeeds only when exactly one user
// matches both; the session then holds that user without its secret.
func (s *Store) Login(ctx context.Context, loginID, secret string) (models.AuthenticatedUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		match   models.User
		matches int
	)
	for _, u := range s.users {
		if u.LoginID != loginID || u.PasswordHash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(secret)) == nil {
			match = u
			matches++
		}
	}
	if matches != 1 {
		s.audit(ctx, "session", loginID, "login_failed", "")
		return models.AuthenticatedUser{}, false
	}

	authed := match.Authenticated()
	s.current = &authed
	s.save(ctx, storage.KeyCurrentUser, s.current)
	s.audit(ctx, "session", authed.ID, "login", "")
	return authed, true
}

func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.audit(ctx, "session", s.current.ID, "logout", "")
	}
	s.current = nil
	s.save(ctx, storage.KeyCurrentUser, nil)
}

func (s *Store) CurrentUser() (models.AuthenticatedUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.AuthenticatedUser{}, false
	}
	return *s.current, true
}

func (s *Store) hash(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}

// AddUser appends user under a fresh id with secret hashed.
func (s *Store) AddUser(ctx context.Context, user models.User, secret string) (models.User, error) {
	hash, err := s.hash(secret)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.ids.NewID("user")
	user.PasswordHash = hash
	s.users = append(s.users, user)
	s.save(ctx, storage.KeyUsers, s.users)
	s.audit(ctx, "user", user.ID, "create", user.LoginID)
	return user, nil
}

// UpdateUser replaces the user with the same id. An empty secret keeps the
// stored hash. When the user is logged in, the session picks up the new
// record. It reports false when no such user exists.
func (s *Store) UpdateUser(ctx context.Context, user models.User, secret string) (bool, error) {
	var hash string
	if secret != "" {
		h, err := s.hash(secret)
		if err != nil {
			return false, err
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.users, func(u models.User) bool { return u.ID == user.ID })
	if i < 0 {
		return false, nil
	}
	if hash == "" {
		hash = s.users[i].PasswordHash
	}
	user.PasswordHash = hash
	s.users[i] = user
	s.save(ctx, storage.KeyUsers, s.users)
	if s.current != nil && s.current.ID == user.ID {
		authed := user.Authenticated()
		s.current = &authed
		s.save(ctx, storage.KeyCurrentUser, s.current)
	}
	s.audit(ctx, "user", user.ID, "update", user.LoginID)
	return true, nil
}

// DeleteUser removes the user with id and ends their session if they are
// logged in. Leads and attendance that reference the user are left in place.
func (s *Store) DeleteUser(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return false
	}
	s.users = slices.Delete(s.users, i, i+1)
	s.save(ctx, storage.KeyUsers, s.users)
	if s.current != nil && s.current.ID == id {
		s.current = nil
		s.save(ctx, storage.KeyCurrentUser, nil)
	}
	s.audit(ctx, "user", id, "delete", "")
	return true
}

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

func (s *Store) User(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// AddCustomerData appends a lead under a fresh id.
func (s *Store) AddCustomerData(ctx context.Context, data models.CustomerData) models.CustomerData {
	s.mu.Lock()
	defer s.mu.Unlock()

	data.ID = s.ids.NewID("data")
	s.customers = append(s.customers, data)
	s.save(ctx, storage.KeyCustomerData, s.customers)
	s.audit(ctx, "customer_data", data.ID, "create", data.CustomerName)
	return data
}

func (s *Store) CustomerData() []models.CustomerData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.customers)
}

// Now is the store clock in the configured location.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

// Today is the calendar date attendance is recorded against.
func (s *Store) Today() string {
	return s.Now().Format(models.DateLayout)
}

// RecordAttendance upserts today's record for user: an existing record for
// (user id, today) is merged field by field, otherwise a new one is created.
func (s *Store) RecordAttendance(ctx context.Context, user models.AuthenticatedUser, ev models.AttendanceEvent) models.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Today()
	for i := range s.attendance {
		rec := &s.attendance[i]
		if rec.UserID != user.ID || rec.Date != today {
			continue
		}
		rec.EmpID = user.EmpID
		rec.StaffName = user.StaffName
		ev.Apply(rec)
		s.save(ctx, storage.KeyAttendanceRecords, s.attendance)
		s.audit(ctx, "attendance", rec.ID, ev.Kind(), today)
		return *rec
	}

	rec := models.AttendanceRecord{
		ID:        s.ids.NewID("att"),
		UserID:    user.ID,
		EmpID:     user.EmpID,
		StaffName: user.StaffName,
		Date:      today,
	}
	ev.Apply(&rec)
	s.attendance = append(s.attendance, rec)
	s.save(ctx, storage.KeyAttendanceRecords, s.attendance)
	s.audit(ctx, "attendance", rec.ID, ev.Kind(), today)
	return rec
}

func (s *Store) AttendanceRecords() []models.AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.attendance)
}

// TodayAttendance returns the record for userID on the current date, if any.
func (s *Store) TodayAttendance(userID string) (models.AttendanceRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	today := s.Today()
	for _, rec := range s.attendance {
		if rec.UserID == userID && rec.Date == today {
			return rec, true
		}
	}
	return models.AttendanceRecord{}, false
}

// Location is the timezone used for calendar days.
func (s *Store) Location() *time.Location {
	return s.loc
}
