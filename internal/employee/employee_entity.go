package employee

import (
	"strings"

	"github.com/google/uuid"
)

// Employee is owned by the people-management side of the system; this
// service only reads it.
type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string
	LastName     string
	Email        string
	DepartmentID *uuid.UUID  `gorm:"type:uuid"`
	PositionID   *uuid.UUID  `gorm:"type:uuid"`
	Department   *Department `gorm:"foreignKey:DepartmentID"`
	Position     *Position   `gorm:"foreignKey:PositionID"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) DepartmentName() string {
	if e.Department == nil {
		return ""
	}
	return e.Department.Name
}

type Department struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

type Position struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
}
