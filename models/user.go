// tensu-crm/models/user.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// User представляет сотрудника платформы: администратора клуба или тренера.
type User struct {
	gorm.Model
	Login        string     `json:"login" gorm:"unique;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Status       string     `json:"status" gorm:"default:'active'"` // active / inactive
	PhotoURL     string     `json:"photoUrl"`
	BirthDate    *time.Time `json:"birthDate"`

	Roles []Role `json:"roles" gorm:"many2many:user_roles;"`
}
