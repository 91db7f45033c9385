// tensu-crm/internal/handlers/attendance_handler.go

package handlers

import (
	"net/http"

	"tensu-crm/config"
	"tensu-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetLessonAttendanceHandler возвращает список учеников группы занятия
// вместе с уже проставленными отметками посещаемости.
//
// GET /api/lessons/:id/attendance
func GetLessonAttendanceHandler(c *gin.Context) {
	lessonID := c.Param("id")

	var lesson models.Lesson
	if err := config.DB.First(&lesson, lessonID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Занятие не найдено"})
		return
	}

	// Ученики группы + их отметка на этом занятии (если уже проставлена).
	var rows []struct {
		StudentID uint    `json:"student_id"`
		FullName  string  `json:"full_name"`
		Attended  *bool   `json:"attended"`
		Notes     *string `json:"notes"`
	}
	err := config.DB.Table("students st").
		Select("st.id AS student_id, TRIM(CONCAT(st.last_name, ' ', st.first_name, ' ', COALESCE(st.middle_name, ''))) AS full_name, a.attended, a.notes").
		Joins("LEFT JOIN attendances a ON a.student_id = st.id AND a.lesson_id = ? AND a.deleted_at IS NULL", lesson.ID).
		Where("st.group_id = ? AND st.deleted_at IS NULL", lesson.GroupID).
		Order("st.last_name ASC, st.first_name ASC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении посещаемости: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lesson_id": lesson.ID,
		"students":  rows,
	})
}

// SaveLessonAttendanceHandler сохраняет отметки посещаемости пачкой.
// Повторная отправка перезаписывает прежние отметки того же ученика.
//
// POST /api/lessons/:id/attendance
func SaveLessonAttendanceHandler(c *gin.Context) {
	lessonID := c.Param("id")
	markedBy := c.GetUint("user_id")

	var lesson models.Lesson
	if err := config.DB.First(&lesson, lessonID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Занятие не найдено"})
		return
	}

	var input models.AttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}
	if len(input.Marks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Список отметок пуст"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, mark := range input.Marks {
			// Ученик должен состоять в группе занятия.
			var cnt int64
			if err := tx.Model(&models.Student{}).
				Where("id = ? AND group_id = ?", mark.StudentID, lesson.GroupID).
				Count(&cnt).Error; err != nil {
				return err
			}
			if cnt == 0 {
				continue // Чужих учеников молча пропускаем
			}

			var existing models.Attendance
			res := tx.Where("lesson_id = ? AND student_id = ?", lesson.ID, mark.StudentID).First(&existing)
			if res.Error == nil {
				existing.Attended = mark.Attended
				existing.Notes = mark.Notes
				existing.MarkedBy = markedBy
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				continue
			}
			record := models.Attendance{
				LessonID:  lesson.ID,
				StudentID: mark.StudentID,
				Attended:  mark.Attended,
				Notes:     mark.Notes,
				MarkedBy:  markedBy,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при сохранении посещаемости: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Посещаемость сохранена"})
}
