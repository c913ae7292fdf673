package dto

import "github.com/yigit/enrollment/internal/app/models"

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	ID          *int64 `json:"id,omitempty" binding:"omitempty,min=1" example:"7"`
	Name        string `json:"name" binding:"required,max=50" example:"Mathematics"`
	Description string `json:"description,omitempty" binding:"max=200" example:"Calculus and linear algebra"`
}

// UpdateCourseRequest replaces every mutable course field; an empty
// description clears it.
type UpdateCourseRequest struct {
	Name        string `json:"name" binding:"required,max=50" example:"Mathematics"`
	Description string `json:"description,omitempty" binding:"max=200" example:"Calculus and linear algebra"`
}

// ToModel converts the request to a course model
func (r CreateCourseRequest) ToModel() *models.Course {
	course := &models.Course{Name: r.Name, Description: r.Description}
	if r.ID != nil {
		course.ID = *r.ID
	}
	return course
}

// ToModel converts the request to a course model with the given ID
func (r UpdateCourseRequest) ToModel(id int64) *models.Course {
	return &models.Course{ID: id, Name: r.Name, Description: r.Description}
}
