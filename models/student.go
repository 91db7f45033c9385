// tensu-crm/models/student.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Student represents the student model in the database.
type Student struct {
	gorm.Model
	PhotoURL string `json:"photoUrl"`
	GroupID  *uint  `json:"groupId"`

	IsActive   *bool      `json:"isActive" gorm:"default:true"`
	LastName   string     `json:"lastName" gorm:"not null"`
	FirstName  string     `json:"firstName" gorm:"not null"`
	MiddleName string     `json:"middleName"`
	Gender     string     `json:"gender"`
	BirthDate  *time.Time `json:"birthDate"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`

	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
	Comments    string `json:"comments"`

	Group *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

// StudentInput используется при создании/обновлении ученика.
type StudentInput struct {
	LastName    string     `json:"last_name" binding:"required"`
	FirstName   string     `json:"first_name" binding:"required"`
	MiddleName  string     `json:"middle_name"`
	Gender      string     `json:"gender"`
	BirthDate   *time.Time `json:"birth_date"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	ParentName  string     `json:"parent_name"`
	ParentPhone string     `json:"parent_phone"`
	Comments    string     `json:"comments"`
	GroupID     *uint      `json:"group_id"`
}

// EnrollmentInput - запрос на зачисление ученика в группу.
type EnrollmentInput struct {
	GroupID uint `json:"group_id" binding:"required"`
}
