package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CourseCounter interface {
	Categories() []string
	CourseCount() int
	EnrollmentCount() int
}

type HomeHandler struct {
	session SessionService
	catalog CourseCounter
}

func NewHomeHandler(session SessionService, catalog CourseCounter) *HomeHandler {
	return &HomeHandler{session: session, catalog: catalog}
}

func (h *HomeHandler) Home(ctx *gin.Context) {
	body := sessionView(h.session)
	body["courseCount"] = h.catalog.CourseCount()
	body["enrolledCount"] = h.catalog.EnrollmentCount()
	body["categories"] = h.catalog.Categories()

	ctx.JSON(http.StatusOK, body)
}
