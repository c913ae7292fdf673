package models

// Course represents a course students can enroll in.
type Course struct {
	ID          int64  `json:"id" db:"id" example:"1"`
	Name        string `json:"name" db:"name" example:"Mathematics"`
	Description string `json:"description,omitempty" db:"description" example:"Calculus and linear algebra"` // NULL when empty
}
