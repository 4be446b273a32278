package cache

import (
	"strconv"
	"strings"

	"github.com/geocoder89/coursehub/internal/domain/course"
)

// CourseListKey identifies one filtered catalog listing. The catalog version is
// part of the key so a new course makes older listings unreachable.
func CourseListKey(version uint64, f course.Filter) string {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	cat := strings.TrimSpace(f.Category)
	if cat == course.AllCategories {
		cat = ""
	}

	return "courses:list:v" + strconv.FormatUint(version, 10) +
		":q=" + q +
		":category=" + cat
}
