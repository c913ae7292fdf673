package dto

import "github.com/yigit/enrollment/internal/app/models"

// CreateStudentRequest represents student creation data.
// ID is optional; when omitted the database assigns one.
type CreateStudentRequest struct {
	ID        *int64 `json:"id,omitempty" binding:"omitempty,min=1" example:"42"`
	FirstName string `json:"firstName" binding:"required,max=50" example:"John"`
	LastName  string `json:"lastName" binding:"required,max=50" example:"Doe"`
}

// UpdateStudentRequest replaces every mutable student field
type UpdateStudentRequest struct {
	FirstName string `json:"firstName" binding:"required,max=50" example:"John"`
	LastName  string `json:"lastName" binding:"required,max=50" example:"Doe"`
}

// StudentListQuery holds the optional filters of GET /students
type StudentListQuery struct {
	Course string `form:"course" binding:"omitempty,max=50" example:"Mathematics"`
}

// CourseNameQuery selects a course by name for enrollment changes
type CourseNameQuery struct {
	Name string `form:"name" binding:"required,max=50" example:"Mathematics"`
}

// ToModel converts the request to a student model
func (r CreateStudentRequest) ToModel() *models.Student {
	student := &models.Student{FirstName: r.FirstName, LastName: r.LastName}
	if r.ID != nil {
		student.ID = *r.ID
	}
	return student
}

// ToModel converts the request to a student model with the given ID
func (r UpdateStudentRequest) ToModel(id int64) *models.Student {
	return &models.Student{ID: id, FirstName: r.FirstName, LastName: r.LastName}
}
