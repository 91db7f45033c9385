// tensu-crm/models/section.go
package models

import "gorm.io/gorm"

// Section представляет секцию (вид спорта) внутри клуба.
type Section struct {
	gorm.Model
	ClubID      uint   `json:"clubId" gorm:"not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	// Необязательное правило допуска в формате govaluate, например "age >= 6 && age <= 12".
	// Проверяется при зачислении ученика в группу секции.
	EligibilityRule string `json:"eligibilityRule"`

	Club *Club `gorm:"foreignKey:ClubID" json:"club,omitempty"`
}

// SectionInput используется при создании/обновлении секции.
type SectionInput struct {
	ClubID          uint   `json:"club_id" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	EligibilityRule string `json:"eligibility_rule"`
}

// SectionResponse - сводка по секции для списков.
type SectionResponse struct {
	ID              uint   `json:"id"`
	ClubID          uint   `json:"club_id"`
	ClubName        string `json:"club_name"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	EligibilityRule string `json:"eligibility_rule"`
	GroupCount      int    `json:"group_count"`
}
