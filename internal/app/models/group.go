package models

// Group is a named cohort of students.
type Group struct {
	ID   int64  `json:"id" db:"id" example:"1"`
	Name string `json:"name" db:"name" example:"AB-12"`
}

// GroupWithCount is a group together with its current member count.
type GroupWithCount struct {
	Group
	StudentCount int64 `json:"studentCount" example:"2"`
}
