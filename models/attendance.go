// tensu-crm/models/attendance.go
package models

import "gorm.io/gorm"

// Attendance - отметка посещаемости ученика на конкретном занятии.
type Attendance struct {
	gorm.Model
	LessonID  uint   `json:"lessonId" gorm:"not null;uniqueIndex:idx_lesson_student"`
	StudentID uint   `json:"studentId" gorm:"not null;uniqueIndex:idx_lesson_student"`
	Attended  bool   `json:"attended"`
	Notes     string `json:"notes"`
	MarkedBy  uint   `json:"markedBy"` // Сотрудник, поставивший отметку

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// AttendanceInput - пакет отметок по одному занятию.
type AttendanceInput struct {
	Marks []struct {
		StudentID uint   `json:"student_id" binding:"required"`
		Attended  bool   `json:"attended"`
		Notes     string `json:"notes"`
	} `json:"marks" binding:"required"`
}
