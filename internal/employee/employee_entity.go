package employee

import (
	"time"
)

type Department string

const (
	DepartmentNone    Department = "None"
	DepartmentHR      Department = "HR"
	DepartmentIT      Department = "IT"
	DepartmentPayroll Department = "Payroll"
)

// Departments is the full enumeration, in form display order.
var Departments = []Department{
	DepartmentNone,
	DepartmentHR,
	DepartmentIT,
	DepartmentPayroll,
}

type Employee struct {
	ID         int        `gorm:"primaryKey"`
	Name       string     `gorm:"size:50;not null"`
	Email      string     `gorm:"size:255;not null"`
	Department Department `gorm:"size:20;not null"`
	// PhotoPath is a file name inside the images dir, nil when no photo.
	PhotoPath *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) Photo() string {
	if e.PhotoPath == nil {
		return ""
	}
	return *e.PhotoPath
}

func stringPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
