// tensu-crm/models/schedule_template.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// ScheduleTemplate описывает повторяющееся еженедельное занятие группы:
// "каждый вторник в 18:00 на 90 минут". Из шаблонов материализуются
// конкретные занятия (Lesson) на выбранный период.
type ScheduleTemplate struct {
	gorm.Model
	GroupID         uint   `json:"groupId" gorm:"not null"`
	CoachID         *uint  `json:"coachId"` // Переопределяет тренера группы, если задан
	DayOfWeek       int    `json:"dayOfWeek" gorm:"not null"` // 0 - понедельник ... 6 - воскресенье
	StartTime       string `json:"startTime" gorm:"size:5;not null"` // "HH:mm"
	DurationMinutes int    `json:"durationMinutes" gorm:"not null"`
	Location        string `json:"location"`
	ValidFrom       *time.Time `json:"validFrom"`
	ValidTo         *time.Time `json:"validTo"`

	Group *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Coach *User  `gorm:"foreignKey:CoachID" json:"coach,omitempty"`
}

// ScheduleTemplateInput используется при создании/обновлении шаблона.
type ScheduleTemplateInput struct {
	GroupID         uint       `json:"group_id" binding:"required"`
	CoachID         *uint      `json:"coach_id"`
	DayOfWeek       *int       `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime       string     `json:"start_time" binding:"required"`
	DurationMinutes int        `json:"duration_minutes" binding:"required,min=1"`
	Location        string     `json:"location"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidTo         *time.Time `json:"valid_to"`
}

// GenerateLessonsInput - период, на который материализуются занятия из шаблона.
type GenerateLessonsInput struct {
	DateFrom string `json:"date_from" binding:"required"` // "YYYY-MM-DD"
	DateTo   string `json:"date_to" binding:"required"`
}
