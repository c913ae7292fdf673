package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID        int64  `json:"id" db:"id" example:"1"`
	FirstName string `json:"firstName" db:"first_name" example:"John"`
	LastName  string `json:"lastName" db:"last_name" example:"Doe"`
}
