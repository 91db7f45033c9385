// tensu-crm/internal/handlers/lesson_handler.go

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tensu-crm/config"
	"tensu-crm/internal/timetable"
	"tensu-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// lessonRow - строка выборки занятия вместе с именами группы и тренера.
type lessonRow struct {
	ID                 uint
	GroupID            uint
	GroupName          string
	CoachName          string
	EffectiveDate      string
	EffectiveStartTime string
	DurationMinutes    int
	Status             string
	Topic              string
	Location           string
}

// baseLessonSelect - общая выборка занятий с именами группы и тренера.
func baseLessonSelect() *gorm.DB {
	return config.DB.Table("lessons l").
		Select(`l.id, l.group_id, g.name as group_name,
            COALESCE(u.full_name, '') as coach_name,
            l.effective_date, l.effective_start_time, l.duration_minutes,
            l.status, l.topic, l.location`).
		Joins("LEFT JOIN groups g ON l.group_id = g.id").
		Joins("LEFT JOIN sections s ON g.section_id = s.id").
		Joins("LEFT JOIN users u ON l.coach_id = u.id").
		Where("l.deleted_at IS NULL").
		Order("l.effective_date, l.effective_start_time")
}

// ListLessonsHandler возвращает занятия с вычисленным отображаемым статусом.
// Фильтры: group_id, coach_id, club_id, date_from, date_to.
func ListLessonsHandler(c *gin.Context) {
	rows, err := queryLessonRows(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении занятий: " + err.Error()})
		return
	}

	now := time.Now()
	responses := make([]models.LessonResponse, 0, len(rows))
	var resolveErrs []string

	for _, row := range rows {
		resp, err := toLessonResponse(row, now)
		if err != nil {
			// Битое занятие не должно прятать остальные - отдаем его в списке проблем.
			resolveErrs = append(resolveErrs, fmt.Sprintf("занятие %d: %v", row.ID, err))
			continue
		}
		responses = append(responses, resp)
	}

	body := gin.H{"data": responses}
	if len(resolveErrs) > 0 {
		body["errors"] = resolveErrs
	}
	c.JSON(http.StatusOK, body)
}

// CreateLessonHandler создает занятие с проверкой даты и времени.
func CreateLessonHandler(c *gin.Context) {
	var input models.LessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	if _, err := timetable.CombineLocalDateTime(input.EffectiveDate, input.EffectiveStartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные дата или время занятия: " + err.Error()})
		return
	}

	var group models.Group
	if err := config.DB.First(&group, input.GroupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Группа не найдена"})
		return
	}

	coachID := input.CoachID
	if coachID == nil {
		coachID = group.CoachID // Тренер по умолчанию - тренер группы
	}

	lesson := models.Lesson{
		GroupID:            input.GroupID,
		CoachID:            coachID,
		EffectiveDate:      input.EffectiveDate,
		EffectiveStartTime: normalizeClock(input.EffectiveStartTime),
		DurationMinutes:    input.DurationMinutes,
		Status:             string(timetable.StatusScheduled),
		Topic:              input.Topic,
		Location:           input.Location,
	}
	if err := config.DB.Create(&lesson).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать занятие: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

// GetLessonHandler возвращает одно занятие с отображаемым статусом.
func GetLessonHandler(c *gin.Context) {
	id := c.Param("id")

	var lesson models.Lesson
	if err := config.DB.Preload("Group").Preload("Coach").First(&lesson, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Занятие не найдено"})
		return
	}

	display, err := timetable.ResolveDisplayStatus(
		timetable.Status(lesson.Status),
		lesson.EffectiveDate, lesson.EffectiveStartTime, lesson.DurationMinutes,
		time.Now(),
	)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Занятие содержит некорректные дату/время: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lesson": lesson, "display_status": display})
}

// UpdateLessonHandler обновляет занятие (перенос, смена тренера, темы, места).
func UpdateLessonHandler(c *gin.Context) {
	id := c.Param("id")
	var input models.LessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	if _, err := timetable.CombineLocalDateTime(input.EffectiveDate, input.EffectiveStartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные дата или время занятия: " + err.Error()})
		return
	}

	var lesson models.Lesson
	if err := config.DB.First(&lesson, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Занятие не найдено"})
		return
	}

	updates := map[string]interface{}{
		"group_id":             input.GroupID,
		"coach_id":             input.CoachID,
		"effective_date":       input.EffectiveDate,
		"effective_start_time": normalizeClock(input.EffectiveStartTime),
		"duration_minutes":     input.DurationMinutes,
		"topic":                input.Topic,
		"location":             input.Location,
	}
	if err := config.DB.Model(&lesson).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить занятие: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Занятие успешно обновлено"})
}

// UpdateLessonStatusHandler принимает отображаемый статус (включая in_progress)
// и сохраняет его серверный эквивалент: in_progress на бэкенде не существует.
func UpdateLessonStatusHandler(c *gin.Context) {
	id := c.Param("id")
	var input models.LessonStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	serverStatus, err := timetable.MapDisplayStatusToServerStatus(timetable.Status(input.DisplayStatus))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный статус: " + input.DisplayStatus})
		return
	}

	var lesson models.Lesson
	if err := config.DB.First(&lesson, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Занятие не найдено"})
		return
	}

	if err := config.DB.Model(&lesson).Update("status", string(serverStatus)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить статус: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Статус обновлен", "status": serverStatus})
}

// DeleteLessonHandler удаляет занятие вместе с отметками посещаемости.
func DeleteLessonHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if result := tx.Delete(&models.Lesson{}, id); result.Error != nil {
			return result.Error
		} else if result.RowsAffected == 0 {
			return fmt.Errorf("занятие не найдено")
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить занятие: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Занятие успешно удалено"})
}

// ExportLessonsHandler выгружает занятия месяца в Excel со статусами на момент выгрузки.
func ExportLessonsHandler(c *gin.Context) {
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}

	rows, err := queryLessonRowsForMonth(c, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при выборке занятий: " + err.Error()})
		return
	}

	now := time.Now()

	f := excelize.NewFile()
	sheetName := "Занятия"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Дата", "Время", "Длительность (мин)", "Группа", "Тренер", "Тема", "Место", "Статус"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIdx := 2
	for _, row := range rows {
		display, err := timetable.ResolveDisplayStatus(
			timetable.Status(row.Status),
			row.EffectiveDate, row.EffectiveStartTime, row.DurationMinutes, now,
		)
		if err != nil {
			slog.Warn("Skipping lesson with broken date/time in export", "lesson_id", row.ID, "error", err)
			continue
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIdx), row.EffectiveDate)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIdx), row.EffectiveStartTime)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIdx), row.DurationMinutes)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIdx), row.GroupName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIdx), row.CoachName)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIdx), row.Topic)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowIdx), row.Location)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowIdx), statusLabel(display))
		rowIdx++
	}

	fileName := fmt.Sprintf("lessons_%04d-%02d_%s.xlsx", year, int(month), now.Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сформировать Excel-файл"})
	}
}

// --- Вспомогательные функции ---

func queryLessonRows(c *gin.Context) ([]lessonRow, error) {
	query := baseLessonSelect()

	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("l.group_id = ?", groupID)
	}
	if coachID := c.Query("coach_id"); coachID != "" {
		query = query.Where("l.coach_id = ?", coachID)
	}
	if clubID := c.Query("club_id"); clubID != "" {
		query = query.Where("s.club_id = ?", clubID)
	}
	if dateFrom := c.Query("date_from"); dateFrom != "" {
		query = query.Where("l.effective_date >= ?", dateFrom)
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		query = query.Where("l.effective_date <= ?", dateTo)
	}

	var rows []lessonRow
	err := query.Scan(&rows).Error
	return rows, err
}

func queryLessonRowsForMonth(c *gin.Context, year int, month time.Month) ([]lessonRow, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, -1)

	query := baseLessonSelect().
		Where("l.effective_date BETWEEN ? AND ?", monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02"))

	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("l.group_id = ?", groupID)
	}
	if clubID := c.Query("club_id"); clubID != "" {
		query = query.Where("s.club_id = ?", clubID)
	}

	var rows []lessonRow
	err := query.Scan(&rows).Error
	return rows, err
}

func toLessonResponse(row lessonRow, now time.Time) (models.LessonResponse, error) {
	display, err := timetable.ResolveDisplayStatus(
		timetable.Status(row.Status),
		row.EffectiveDate, row.EffectiveStartTime, row.DurationMinutes, now,
	)
	if err != nil {
		return models.LessonResponse{}, err
	}

	return models.LessonResponse{
		ID:                 row.ID,
		GroupID:            row.GroupID,
		GroupName:          row.GroupName,
		CoachName:          row.CoachName,
		EffectiveDate:      row.EffectiveDate,
		EffectiveStartTime: row.EffectiveStartTime,
		DurationMinutes:    row.DurationMinutes,
		Status:             row.Status,
		DisplayStatus:      string(display),
		Topic:              row.Topic,
		Location:           row.Location,
	}, nil
}

// parseYearMonth читает и проверяет параметры year/month (месяц 1-12).
func parseYearMonth(c *gin.Context) (int, time.Month, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный параметр year"})
		return 0, 0, false
	}
	monthNum, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный параметр month"})
		return 0, 0, false
	}
	if _, _, err := timetable.MonthGridRange(year, time.Month(monthNum)); err != nil {
		if errors.Is(err, timetable.ErrInvalidCalendarInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Год или месяц вне допустимого диапазона"})
			return 0, 0, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return 0, 0, false
	}
	return year, time.Month(monthNum), true
}

// normalizeClock отбрасывает секунды у времени вида "HH:mm:ss".
// Режем по второму двоеточию, а не по длине: встречается и "9:30:00".
func normalizeClock(clock string) string {
	parts := strings.SplitN(clock, ":", 3)
	if len(parts) < 3 {
		return clock
	}
	return parts[0] + ":" + parts[1]
}

// statusLabel - человекочитаемый статус для выгрузок.
func statusLabel(status timetable.Status) string {
	switch status {
	case timetable.StatusScheduled:
		return "Запланировано"
	case timetable.StatusInProgress:
		return "Идет сейчас"
	case timetable.StatusCompleted:
		return "Завершено"
	case timetable.StatusCancelled:
		return "Отменено"
	default:
		return string(status)
	}
}
