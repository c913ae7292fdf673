package dto

import "github.com/yigit/enrollment/internal/app/models"

// CreateGroupRequest represents group creation data
type CreateGroupRequest struct {
	ID   *int64 `json:"id,omitempty" binding:"omitempty,min=1" example:"3"`
	Name string `json:"name" binding:"required,max=50" example:"AB-12"`
}

// UpdateGroupRequest replaces the group name
type UpdateGroupRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"AB-12"`
}

// GroupListQuery holds the optional filters of GET /groups.
// MaxStudents keeps only groups with at most that many members; Count is
// accepted as an older spelling of the same filter.
type GroupListQuery struct {
	MaxStudents *int `form:"max_students" binding:"omitempty,min=0" example:"2"`
	Count       *int `form:"count" binding:"omitempty,min=0" example:"2"`
}

// Threshold returns the member-count bound, preferring max_students
func (q GroupListQuery) Threshold() *int {
	if q.MaxStudents != nil {
		return q.MaxStudents
	}
	return q.Count
}

// ToModel converts the request to a group model
func (r CreateGroupRequest) ToModel() *models.Group {
	group := &models.Group{Name: r.Name}
	if r.ID != nil {
		group.ID = *r.ID
	}
	return group
}

// ToModel converts the request to a group model with the given ID
func (r UpdateGroupRequest) ToModel(id int64) *models.Group {
	return &models.Group{ID: id, Name: r.Name}
}
