// tensu-crm/internal/handlers/calendar_handler.go

package handlers

import (
	"net/http"
	"time"

	"tensu-crm/config"
	"tensu-crm/internal/timetable"

	"github.com/gin-gonic/gin"
)

// GetMonthGridHandler возвращает месячную сетку календаря: ровно 42 ячейки
// (6 недель, неделя с понедельника), включая дни-заполнители соседних месяцев.
// Фронтенд консоли рисует сетку как есть, без собственной календарной логики.
//
// GET /api/calendar/month?year=2024&month=3[&group_id=...][&club_id=...][&coach_id=...]
func GetMonthGridHandler(c *gin.Context) {
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}

	gridStart, gridEnd, err := timetable.MonthGridRange(year, month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Год или месяц вне допустимого диапазона"})
		return
	}

	// Выбираем занятия ровно под видимый диапазон, вместе с заполнителями.
	query := config.DB.Table("lessons l").
		Select("l.id, l.effective_date, l.effective_start_time, l.duration_minutes, l.status").
		Joins("LEFT JOIN groups g ON l.group_id = g.id").
		Joins("LEFT JOIN sections s ON g.section_id = s.id").
		Where("l.deleted_at IS NULL").
		Where("l.effective_date BETWEEN ? AND ?", gridStart.Format("2006-01-02"), gridEnd.Format("2006-01-02"))

	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("l.group_id = ?", groupID)
	}
	if clubID := c.Query("club_id"); clubID != "" {
		query = query.Where("s.club_id = ?", clubID)
	}
	if coachID := c.Query("coach_id"); coachID != "" {
		query = query.Where("l.coach_id = ?", coachID)
	}

	var raw []struct {
		ID                 uint
		EffectiveDate      string
		EffectiveStartTime string
		DurationMinutes    int
		Status             string
	}
	if err := query.Scan(&raw).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при выборке занятий: " + err.Error()})
		return
	}

	lessons := make([]timetable.LessonInfo, 0, len(raw))
	for _, r := range raw {
		lessons = append(lessons, timetable.LessonInfo{
			ID:              r.ID,
			Date:            r.EffectiveDate,
			Time:            r.EffectiveStartTime,
			DurationMinutes: r.DurationMinutes,
			Status:          timetable.Status(r.Status),
		})
	}

	grid, buildErr := timetable.BuildMonthGrid(year, month, lessons, time.Now())
	if grid == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Год или месяц вне допустимого диапазона"})
		return
	}

	body := gin.H{
		"year":  year,
		"month": int(month),
		"days":  grid,
	}
	// Битые занятия не роняют календарь, но консоль должна о них знать.
	if buildErr != nil {
		body["warnings"] = buildErr.Error()
	}
	c.JSON(http.StatusOK, body)
}
