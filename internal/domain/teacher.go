package domain

import "time"

// TeacherCodeMin and TeacherCodeMax bound the numeric range of generated teacher codes.
const (
	TeacherCodeMin int64 = 1_000_000_000
	TeacherCodeMax int64 = 9_999_999_999
)

// Degree is an academic qualification held by a teacher.
type Degree struct {
	Type        string `json:"type"`
	School      string `json:"school"`
	Major       string `json:"major"`
	Year        int    `json:"year"`
	IsGraduated bool   `json:"isGraduated"`
}

// Teacher models a staff member. AccountID and PositionIDs are references to
// records the teacher does not own.
type Teacher struct {
	ID          string
	Code        string
	Name        string
	Email       string
	Phone       string
	Status      string
	Address     string
	Degrees     []Degree
	StartDate   time.Time
	PositionIDs []string
	AccountID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeacherDetails is a teacher with its references resolved.
type TeacherDetails struct {
	Teacher
	Account   Account
	Positions []Position
}
