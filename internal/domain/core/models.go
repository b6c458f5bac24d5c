package core

import "time"

const (
	EmployeeStatusActive     = "active"
	EmployeeStatusOnboarding = "onboarding"
	EmployeeStatusInactive   = "inactive"
)

const (
	AttendancePresent = "Present"
	AttendanceLate    = "Late"
	AttendanceAbsent  = "Absent"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AttendanceRecord struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}

type Employee struct {
	ID                       string             `json:"id"`
	UserID                   string             `json:"userId"`
	EmployeeNumber           string             `json:"employeeId"`
	JobTitle                 string             `json:"jobTitle"`
	Department               string             `json:"department"`
	Skills                   []string           `json:"skills"`
	HireDate                 time.Time          `json:"hireDate"`
	ManagerID                string             `json:"managerId,omitempty"`
	Status                   string             `json:"status"`
	CurrentAllocationPercent int                `json:"currentAllocationPercent"`
	PhoneNumber              string             `json:"phoneNumber,omitempty"`
	Attendance               []AttendanceRecord `json:"attendance"`
	FirstName                string             `json:"firstName,omitempty"`
	LastName                 string             `json:"lastName,omitempty"`
	Email                    string             `json:"email,omitempty"`
	CreatedAt                time.Time          `json:"createdAt"`
	UpdatedAt                time.Time          `json:"updatedAt"`
}

func (e Employee) FullName() string {
	switch {
	case e.FirstName == "" && e.LastName == "":
		return ""
	case e.LastName == "":
		return e.FirstName
	case e.FirstName == "":
		return e.LastName
	}
	return e.FirstName + " " + e.LastName
}
