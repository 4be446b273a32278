package enrollment

import (
	"errors"
	"time"

	"github.com/geocoder89/coursehub/internal/domain/course"
)

// Enrollment is a course snapshot plus the learner's progress. The JSON shape
// matches what is persisted under "myCourses".
type Enrollment struct {
	course.Course
	EnrolledAt time.Time `json:"enrolled"`
	Progress   int       `json:"progress"`
	Notes      *string   `json:"notes,omitempty"`
}

var (
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrNotEnrolled     = errors.New("not enrolled in this course")
)

type EnrollRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

// UpdateRequest is a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Progress *int    `json:"progress" binding:"omitempty,min=0,max=100"`
	Notes    *string `json:"notes" binding:"omitempty,max=5000"`
}

func (r UpdateRequest) IsEmpty() bool {
	return r.Progress == nil && r.Notes == nil
}

func New(c course.Course, at time.Time) Enrollment {
	return Enrollment{
		Course:     c,
		EnrolledAt: at,
		Progress:   0,
	}
}

// Apply merges the non-nil fields of req into e.
func (e Enrollment) Apply(req UpdateRequest) Enrollment {
	if req.Progress != nil {
		e.Progress = *req.Progress
	}
	if req.Notes != nil {
		n := *req.Notes
		e.Notes = &n
	}
	return e
}

type Groups struct {
	NotStarted []Enrollment `json:"notStarted"`
	InProgress []Enrollment `json:"inProgress"`
	Completed  []Enrollment `json:"completed"`
}

func GroupByProgress(items []Enrollment) Groups {
	g := Groups{
		NotStarted: make([]Enrollment, 0),
		InProgress: make([]Enrollment, 0),
		Completed:  make([]Enrollment, 0),
	}

	for _, e := range items {
		switch {
		case e.Progress <= 0:
			g.NotStarted = append(g.NotStarted, e)
		case e.Progress >= 100:
			g.Completed = append(g.Completed, e)
		default:
			g.InProgress = append(g.InProgress, e)
		}
	}
	return g
}
