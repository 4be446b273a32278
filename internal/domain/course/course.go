package course

import (
	"errors"
	"strings"
)

type Course struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Instructor  string  `json:"instructor" yaml:"instructor"`
	Price       float64 `json:"price" yaml:"price"`
	Image       string  `json:"image" yaml:"image"`
	Category    string  `json:"category" yaml:"category"`
	Duration    string  `json:"duration" yaml:"duration"`
}

var ErrNotFound = errors.New("course not found")

// AllCategories disables the category filter.
const AllCategories = "all"

type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=120"`
	Description string  `json:"description" binding:"required,max=1000"`
	Instructor  string  `json:"instructor" binding:"required,max=80"`
	Price       float64 `json:"price" binding:"min=0"`
	Image       string  `json:"image" binding:"omitempty,url"`
	Category    string  `json:"category" binding:"required,max=60"`
	Duration    string  `json:"duration" binding:"required,max=40"`
}

type Filter struct {
	Query    string
	Category string
}

// Matches is a case-insensitive substring test over title, description and instructor,
// combined with an exact category match.
func (f Filter) Matches(c Course) bool {
	if cat := strings.TrimSpace(f.Category); cat != "" && cat != AllCategories && c.Category != cat {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}

	return strings.Contains(strings.ToLower(c.Title), q) ||
		strings.Contains(strings.ToLower(c.Description), q) ||
		strings.Contains(strings.ToLower(c.Instructor), q)
}

func Apply(courses []Course, f Filter) []Course {
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// Categories returns "all" followed by each distinct category in first-seen order.
func Categories(courses []Course) []string {
	seen := make(map[string]struct{}, len(courses))
	out := []string{AllCategories}

	for _, c := range courses {
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	return out
}
