package course

import "github.com/google/uuid"

func NewFromCreateRequest(req CreateCourseRequest) Course {
	return Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Instructor:  req.Instructor,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Duration:    req.Duration,
	}
}
