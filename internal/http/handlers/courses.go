package handlers

import (
	"net/http"

	"github.com/geocoder89/coursehub/internal/cache"
	"github.com/geocoder89/coursehub/internal/domain/course"
	"github.com/geocoder89/coursehub/internal/domain/enrollment"
	"github.com/gin-gonic/gin"
)

type CatalogReader interface {
	Search(f course.Filter) []course.Course
	GetCourse(id string) (course.Course, bool)
	Enrollment(id string) (enrollment.Enrollment, bool)
	Categories() []string
	Version() uint64
}

type CoursesHandler struct {
	catalog CatalogReader
	cache   *cache.Cache
}

// NewCoursesHandler caches filtered listings in listCache when it is non-nil.
func NewCoursesHandler(catalog CatalogReader, listCache *cache.Cache) *CoursesHandler {
	return &CoursesHandler{catalog: catalog, cache: listCache}
}

type courseListPayload struct {
	Items      []course.Course `json:"items"`
	Count      int             `json:"count"`
	Categories []string        `json:"categories"`
	Query      string          `json:"q"`
	Category   string          `json:"category"`
}

func (h *CoursesHandler) ListCourses(ctx *gin.Context) {
	f := course.Filter{
		Query:    ctx.Query("q"),
		Category: ctx.DefaultQuery("category", course.AllCategories),
	}

	version := h.catalog.Version()

	// a listing only changes with the catalog version or the filter
	if notModified(ctx, catalogETag(version, []byte(f.Query+"\x00"+f.Category))) {
		return
	}

	key := cache.CourseListKey(version, f)

	if h.cache != nil {
		if v, ok := h.cache.Get(key); ok {
			if payload, ok := v.(courseListPayload); ok {
				ctx.Header("X-Cache", "HIT")
				ctx.JSON(http.StatusOK, payload)
				return
			}
		}
	}

	items := h.catalog.Search(f)
	payload := courseListPayload{
		Items:      items,
		Count:      len(items),
		Categories: h.catalog.Categories(),
		Query:      f.Query,
		Category:   f.Category,
	}

	if h.cache != nil {
		h.cache.Set(key, payload)
		ctx.Header("X-Cache", "MISS")
	}

	ctx.JSON(http.StatusOK, payload)
}

func (h *CoursesHandler) GetCourseByID(ctx *gin.Context) {
	id := ctx.Param("id")

	c, ok := h.catalog.GetCourse(id)
	if !ok {
		RespondNotFound(ctx, "Course not found")
		return
	}

	body := gin.H{
		"course":   c,
		"enrolled": false,
	}
	if e, ok := h.catalog.Enrollment(id); ok {
		body["enrolled"] = true
		body["enrollment"] = e
	}

	respondCatalogJSON(ctx, h.catalog.Version(), body)
}
