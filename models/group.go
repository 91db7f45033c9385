// tensu-crm/models/group.go
package models

import "gorm.io/gorm"

// Group представляет тренировочную группу внутри секции.
type Group struct {
	gorm.Model
	SectionID uint   `json:"sectionId" gorm:"not null"`
	Name      string `json:"name" gorm:"not null"`
	CoachID   *uint  `json:"coachId"` // Основной тренер группы
	AgeMin    int    `json:"ageMin"`
	AgeMax    *int   `json:"ageMax"`
	Capacity  int    `json:"capacity" gorm:"default:0"` // 0 - без ограничения

	Section *Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
	Coach   *User    `gorm:"foreignKey:CoachID" json:"coach,omitempty"`
}

// GroupInput используется при создании/обновлении группы.
type GroupInput struct {
	SectionID uint   `json:"section_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	CoachID   *uint  `json:"coach_id"`
	AgeMin    int    `json:"age_min"`
	AgeMax    *int   `json:"age_max"`
	Capacity  int    `json:"capacity"`
}

// GroupResponse - сводка по группе: сколько учеников, кто тренер.
type GroupResponse struct {
	ID           uint   `json:"id"`
	SectionID    uint   `json:"section_id"`
	SectionName  string `json:"section_name"`
	Name         string `json:"name"`
	CoachName    string `json:"coach_name"`
	AgeMin       int    `json:"age_min"`
	AgeMax       *int   `json:"age_max"`
	Capacity     int    `json:"capacity"`
	StudentCount int    `json:"student_count"`
}
