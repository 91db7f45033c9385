// tensu-crm/models/lesson.go

package models

import "gorm.io/gorm"

// Lesson представляет конкретное занятие группы. Дата и время храним строками
// в том же виде, в каком их отдает и принимает консоль ("YYYY-MM-DD" / "HH:mm"):
// все клубы платформы работают в одном часовом поясе, конверсий нет.
type Lesson struct {
	gorm.Model
	GroupID            uint   `json:"groupId" gorm:"not null;index"`
	CoachID            *uint  `json:"coachId"`
	TemplateID         *uint  `json:"templateId"` // Шаблон, из которого занятие было сгенерировано
	EffectiveDate      string `json:"effective_date" gorm:"size:10;not null;index"`
	EffectiveStartTime string `json:"effective_start_time" gorm:"size:5;not null"`
	DurationMinutes    int    `json:"duration_minutes" gorm:"not null"`
	// Серверный статус: scheduled / cancelled / completed. Статус in_progress
	// существует только на уровне отображения и в базу не попадает.
	Status   string `json:"status" gorm:"size:20;default:'scheduled'"`
	Topic    string `json:"topic"`
	Location string `json:"location"`

	Group *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Coach *User  `gorm:"foreignKey:CoachID" json:"coach,omitempty"`
}

// LessonInput используется при создании/обновлении занятия.
type LessonInput struct {
	GroupID            uint   `json:"group_id" binding:"required"`
	CoachID            *uint  `json:"coach_id"`
	EffectiveDate      string `json:"effective_date" binding:"required"`
	EffectiveStartTime string `json:"effective_start_time" binding:"required"`
	DurationMinutes    int    `json:"duration_minutes" binding:"required,min=1"`
	Topic              string `json:"topic"`
	Location           string `json:"location"`
}

// LessonStatusInput - запрос на смену статуса. Принимаем отображаемый статус
// (фронтенд может прислать и in_progress), в базу попадает серверный эквивалент.
type LessonStatusInput struct {
	DisplayStatus string `json:"display_status" binding:"required"`
}

// LessonResponse - занятие вместе с вычисленным отображаемым статусом.
type LessonResponse struct {
	ID                 uint   `json:"id"`
	GroupID            uint   `json:"group_id"`
	GroupName          string `json:"group_name,omitempty"`
	CoachName          string `json:"coach_name,omitempty"`
	EffectiveDate      string `json:"effective_date"`
	EffectiveStartTime string `json:"effective_start_time"`
	DurationMinutes    int    `json:"duration_minutes"`
	Status             string `json:"status"`
	DisplayStatus      string `json:"display_status"`
	Topic              string `json:"topic"`
	Location           string `json:"location"`
}
