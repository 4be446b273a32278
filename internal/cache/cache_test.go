package cache

import (
	"testing"
	"time"

	"github.com/geocoder89/coursehub/internal/domain/course"
)

func TestCacheExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewWithClock(30*time.Second, func() time.Time { return now })

	c.Set("k", 42)

	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Fatalf("expected hit, got %v %v", v, ok)
	}

	now = now.Add(31 * time.Second)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be evicted on read, len=%d", c.Len())
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("a should be gone")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("clear left %d entries", c.Len())
	}
}

func TestCourseListKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{
			name: "query is case and space insensitive",
			a:    CourseListKey(1, course.Filter{Query: " Python "}),
			b:    CourseListKey(1, course.Filter{Query: "python"}),
			same: true,
		},
		{
			name: "all category equals no category",
			a:    CourseListKey(1, course.Filter{Category: "all"}),
			b:    CourseListKey(1, course.Filter{}),
			same: true,
		},
		{
			name: "version bump changes key",
			a:    CourseListKey(1, course.Filter{}),
			b:    CourseListKey(2, course.Filter{}),
			same: false,
		},
		{
			name: "category is exact",
			a:    CourseListKey(1, course.Filter{Category: "Design"}),
			b:    CourseListKey(1, course.Filter{Category: "design"}),
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.a == tt.b) != tt.same {
				t.Fatalf("keys %q and %q: same=%v, want %v", tt.a, tt.b, tt.a == tt.b, tt.same)
			}
		})
	}
}
