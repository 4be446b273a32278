package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/geocoder89/coursehub/internal/clock"
	"github.com/geocoder89/coursehub/internal/domain/course"
	"github.com/geocoder89/coursehub/internal/domain/enrollment"
	"github.com/geocoder89/coursehub/internal/domain/user"
	"github.com/geocoder89/coursehub/internal/notifications"
	"github.com/geocoder89/coursehub/internal/observability"
	"github.com/geocoder89/coursehub/internal/storage"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrCourseNotFound   = course.ErrNotFound
)

// SessionState is the part of the session store the catalog depends on.
type SessionState interface {
	IsAuthenticated() bool
}

type Options struct {
	Storage  storage.Storage
	Session  SessionState
	Clock    clock.Clock
	Notifier notifications.Notifier
	Prom     *observability.Prom
	Logger   *slog.Logger

	// Seed is written to storage when no catalog has been persisted yet.
	Seed []course.Course
	// LegacyEnrollmentPersistence only writes the enrollment list while it is non-empty.
	LegacyEnrollmentPersistence bool
}

// Store owns the course catalog and the current session's enrollments.
type Store struct {
	mu      sync.RWMutex
	courses []course.Course
	mine    []enrollment.Enrollment
	version uint64

	storage  storage.Storage
	session  SessionState
	clock    clock.Clock
	notifier notifications.Notifier
	prom     *observability.Prom
	log      *slog.Logger
	seed     []course.Course
	legacy   bool
}

func New(opts Options) *Store {
	s := &Store{
		storage:  opts.Storage,
		session:  opts.Session,
		clock:    opts.Clock,
		notifier: opts.Notifier,
		prom:     opts.Prom,
		log:      opts.Logger,
		seed:     opts.Seed,
		legacy:   opts.LegacyEnrollmentPersistence,
	}

	if s.clock == nil {
		s.clock = clock.Real{}
	}
	if s.notifier == nil {
		s.notifier = notifications.Discard{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.seed == nil {
		s.seed = course.Seed()
	}
	return s
}

// Load reads the persisted catalog (writing the seed on first run) and, while a
// session is active, the persisted enrollments.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var courses []course.Course
	ok, err := storage.GetJSON(ctx, s.storage, storage.KeyAvailableCourses, &courses)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if !ok {
		courses = append([]course.Course(nil), s.seed...)
		if err := storage.SetJSON(ctx, s.storage, storage.KeyAvailableCourses, courses); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		s.log.InfoContext(ctx, "catalog seeded", "courses", len(courses))
	}

	s.courses = courses
	s.version++

	if s.session.IsAuthenticated() {
		return s.loadMineLocked(ctx)
	}
	s.mine = nil
	return nil
}

// OnSession reloads or clears the enrollment list when the session changes.
// Register it with the session store's Subscribe.
func (s *Store) OnSession(ctx context.Context, _ user.User, authenticated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !authenticated {
		s.mine = nil
		return
	}

	if err := s.loadMineLocked(ctx); err != nil {
		s.log.ErrorContext(ctx, "load enrollments failed", "err", err)
		s.mine = nil
	}
}

func (s *Store) loadMineLocked(ctx context.Context) error {
	var mine []enrollment.Enrollment

	if _, err := storage.GetJSON(ctx, s.storage, storage.KeyMyCourses, &mine); err != nil {
		return fmt.Errorf("load enrollments: %w", err)
	}
	s.mine = mine
	return nil
}

func (s *Store) Courses() []course.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]course.Course{}, s.courses...)
}

func (s *Store) MyCourses() []enrollment.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]enrollment.Enrollment{}, s.mine...)
}

func (s *Store) CourseCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}

func (s *Store) EnrollmentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mine)
}

// Version changes whenever the catalog does; listing caches key on it.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) GetCourse(id string) (course.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.courseIndexLocked(id)
	if i < 0 {
		return course.Course{}, false
	}
	return s.courses[i], true
}

func (s *Store) IsEnrolled(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrollmentIndexLocked(id) >= 0
}

func (s *Store) Enrollment(id string) (enrollment.Enrollment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.enrollmentIndexLocked(id)
	if i < 0 {
		return enrollment.Enrollment{}, false
	}
	return s.mine[i], true
}

func (s *Store) Search(f course.Filter) []course.Course {
	return course.Apply(s.Courses(), f)
}

func (s *Store) Categories() []string {
	return course.Categories(s.Courses())
}

// SearchMine filters the enrollments by title, description or instructor.
func (s *Store) SearchMine(query string) []enrollment.Enrollment {
	f := course.Filter{Query: query}
	out := make([]enrollment.Enrollment, 0)

	for _, e := range s.MyCourses() {
		if f.Matches(e.Course) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) Enroll(ctx context.Context, id string) (enrollment.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.IsAuthenticated() {
		return enrollment.Enrollment{}, s.fail(ctx, "enroll", ErrNotAuthenticated, "Please log in to enroll in courses")
	}

	if s.enrollmentIndexLocked(id) >= 0 {
		s.prom.CountOp("enroll", "already_enrolled")
		notifications.Info(ctx, s.notifier, "You are already enrolled in this course")
		return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
	}

	i := s.courseIndexLocked(id)
	if i < 0 {
		return enrollment.Enrollment{}, s.fail(ctx, "enroll", ErrCourseNotFound, "Course not found")
	}

	e := enrollment.New(s.courses[i], s.clock.Now())
	next := append(append([]enrollment.Enrollment{}, s.mine...), e)

	if err := s.saveMineLocked(ctx, next); err != nil {
		return enrollment.Enrollment{}, s.fail(ctx, "enroll", err, "Could not save your courses")
	}
	s.mine = next

	s.prom.CountOp("enroll", "ok")
	notifications.Success(ctx, s.notifier, "Enrolled in "+e.Title)
	return e, nil
}

func (s *Store) Unenroll(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.IsAuthenticated() {
		return s.fail(ctx, "unenroll", ErrNotAuthenticated, "Please log in to manage your courses")
	}

	i := s.enrollmentIndexLocked(id)
	if i < 0 {
		return s.fail(ctx, "unenroll", enrollment.ErrNotEnrolled, "You are not enrolled in this course")
	}

	next := make([]enrollment.Enrollment, 0, len(s.mine)-1)
	next = append(next, s.mine[:i]...)
	next = append(next, s.mine[i+1:]...)

	if err := s.saveMineLocked(ctx, next); err != nil {
		return s.fail(ctx, "unenroll", err, "Could not save your courses")
	}
	s.mine = next

	s.prom.CountOp("unenroll", "ok")
	notifications.Success(ctx, s.notifier, "Course removed from your list")
	return nil
}

// Update merges the non-nil fields of req into the enrollment for id.
func (s *Store) Update(ctx context.Context, id string, req enrollment.UpdateRequest) (enrollment.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.IsAuthenticated() {
		return enrollment.Enrollment{}, s.fail(ctx, "update", ErrNotAuthenticated, "Please log in to update course details")
	}

	i := s.enrollmentIndexLocked(id)
	if i < 0 {
		return enrollment.Enrollment{}, s.fail(ctx, "update", enrollment.ErrNotEnrolled, "You are not enrolled in this course")
	}

	next := append([]enrollment.Enrollment{}, s.mine...)
	next[i] = next[i].Apply(req)

	if err := s.saveMineLocked(ctx, next); err != nil {
		return enrollment.Enrollment{}, s.fail(ctx, "update", err, "Could not save your courses")
	}
	s.mine = next

	s.prom.CountOp("update", "ok")
	notifications.Success(ctx, s.notifier, "Course updated successfully")
	return next[i], nil
}

// CreateCourse appends a new catalog entry. Role checks belong to the caller.
func (s *Store) CreateCourse(ctx context.Context, req course.CreateCourseRequest) (course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := course.NewFromCreateRequest(req)
	next := append(append([]course.Course{}, s.courses...), c)

	if err := storage.SetJSON(ctx, s.storage, storage.KeyAvailableCourses, next); err != nil {
		return course.Course{}, s.fail(ctx, "create_course", fmt.Errorf("persist catalog: %w", err), "Could not add course")
	}
	s.courses = next
	s.version++

	s.prom.CountOp("create_course", "ok")
	notifications.Success(ctx, s.notifier, fmt.Sprintf("Course %q added successfully", c.Title))
	return c, nil
}

// saveMineLocked writes the enrollment list while a session is active.
func (s *Store) saveMineLocked(ctx context.Context, next []enrollment.Enrollment) error {
	if !s.session.IsAuthenticated() {
		return nil
	}
	if s.legacy && len(next) == 0 {
		return nil
	}

	if err := storage.SetJSON(ctx, s.storage, storage.KeyMyCourses, next); err != nil {
		return fmt.Errorf("persist enrollments: %w", err)
	}
	return nil
}

func (s *Store) fail(ctx context.Context, op string, err error, msg string) error {
	s.prom.CountOp(op, resultCode(err))
	notifications.Error(ctx, s.notifier, msg)
	return err
}

func resultCode(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrCourseNotFound):
		return "course_not_found"
	case errors.Is(err, enrollment.ErrAlreadyEnrolled):
		return "already_enrolled"
	case errors.Is(err, enrollment.ErrNotEnrolled):
		return "not_enrolled"
	default:
		return "storage_error"
	}
}

func (s *Store) courseIndexLocked(id string) int {
	for i, c := range s.courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) enrollmentIndexLocked(id string) int {
	for i, e := range s.mine {
		if e.ID == id {
			return i
		}
	}
	return -1
}
