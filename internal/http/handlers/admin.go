package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/coursehub/internal/domain/course"
	"github.com/gin-gonic/gin"
)

type CourseCreator interface {
	CreateCourse(ctx context.Context, req course.CreateCourseRequest) (course.Course, error)
	Courses() []course.Course
	Categories() []string
}

type AdminHandler struct {
	catalog CourseCreator
}

func NewAdminHandler(catalog CourseCreator) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

func (h *AdminHandler) Dashboard(ctx *gin.Context) {
	courses := h.catalog.Courses()

	byCategory := make(map[string]int)
	for _, c := range courses {
		byCategory[c.Category]++
	}

	ctx.JSON(http.StatusOK, gin.H{
		"courseCount": len(courses),
		"categories":  h.catalog.Categories(),
		"byCategory":  byCategory,
		"items":       courses,
	})
}

func (h *AdminHandler) CreateCourse(ctx *gin.Context) {
	var req course.CreateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	c, err := h.catalog.CreateCourse(ctx.Request.Context(), req)
	if err != nil {
		RespondInternal(ctx, "Could not create course")
		return
	}

	RespondWithNotices(ctx, http.StatusCreated, gin.H{"course": c})
}
