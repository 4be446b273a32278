package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/geocoder89/coursehub/internal/catalog"
	"github.com/geocoder89/coursehub/internal/domain/course"
	"github.com/geocoder89/coursehub/internal/domain/enrollment"
	"github.com/gin-gonic/gin"
)

type EnrollmentService interface {
	SearchMine(query string) []enrollment.Enrollment
	Enrollment(id string) (enrollment.Enrollment, bool)
	Enroll(ctx context.Context, id string) (enrollment.Enrollment, error)
	Unenroll(ctx context.Context, id string) error
	Update(ctx context.Context, id string, req enrollment.UpdateRequest) (enrollment.Enrollment, error)
}

type MyCoursesHandler struct {
	enrollments EnrollmentService
}

func NewMyCoursesHandler(enrollments EnrollmentService) *MyCoursesHandler {
	return &MyCoursesHandler{enrollments: enrollments}
}

func (h *MyCoursesHandler) List(ctx *gin.Context) {
	items := h.enrollments.SearchMine(ctx.Query("q"))

	ctx.JSON(http.StatusOK, gin.H{
		"items":  items,
		"count":  len(items),
		"groups": enrollment.GroupByProgress(items),
	})
}

func (h *MyCoursesHandler) Get(ctx *gin.Context) {
	e, ok := h.enrollments.Enrollment(ctx.Param("courseId"))
	if !ok {
		RespondError(ctx, http.StatusNotFound, "not_enrolled", "You are not enrolled in this course", nil)
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *MyCoursesHandler) Enroll(ctx *gin.Context) {
	var req enrollment.EnrollRequest

	if !BindJSON(ctx, &req) {
		return
	}

	e, err := h.enrollments.Enroll(ctx.Request.Context(), req.CourseID)
	if err != nil {
		respondEnrollmentError(ctx, err, "Could not enroll in course")
		return
	}

	RespondWithNotices(ctx, http.StatusCreated, gin.H{"enrollment": e})
}

func (h *MyCoursesHandler) Update(ctx *gin.Context) {
	var req enrollment.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}
	if req.IsEmpty() {
		RespondBadRequest(ctx, "Nothing to update", gin.H{"fields": []string{"progress", "notes"}})
		return
	}

	e, err := h.enrollments.Update(ctx.Request.Context(), ctx.Param("courseId"), req)
	if err != nil {
		respondEnrollmentError(ctx, err, "Could not update course")
		return
	}

	RespondWithNotices(ctx, http.StatusOK, gin.H{"enrollment": e})
}

func (h *MyCoursesHandler) Unenroll(ctx *gin.Context) {
	if err := h.enrollments.Unenroll(ctx.Request.Context(), ctx.Param("courseId")); err != nil {
		respondEnrollmentError(ctx, err, "Could not remove course")
		return
	}

	RespondWithNotices(ctx, http.StatusOK, gin.H{"redirect": "/my-courses"})
}

func respondEnrollmentError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, catalog.ErrNotAuthenticated):
		RespondError(ctx, http.StatusUnauthorized, "not_authenticated", "Please log in to manage your courses", gin.H{"redirect": "/login"})
	case errors.Is(err, enrollment.ErrAlreadyEnrolled):
		RespondConflict(ctx, "already_enrolled", "You are already enrolled in this course")
	case errors.Is(err, enrollment.ErrNotEnrolled):
		RespondError(ctx, http.StatusNotFound, "not_enrolled", "You are not enrolled in this course", nil)
	case errors.Is(err, course.ErrNotFound):
		RespondNotFound(ctx, "Course not found")
	default:
		RespondInternal(ctx, fallback)
	}
}
