// tensu-crm/internal/handlers/schedule_template_handler.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tensu-crm/config"
	"tensu-crm/internal/timetable"
	"tensu-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"gorm.io/gorm"
)

// Дни недели в порядке индексов шаблона: 0 - понедельник ... 6 - воскресенье.
var weekdayNames = []string{
	"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье",
}

// ListScheduleTemplatesHandler возвращает шаблоны расписания, опционально по группе.
func ListScheduleTemplatesHandler(c *gin.Context) {
	query := config.DB.Preload("Group").Preload("Coach").Order("day_of_week, start_time")

	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}

	var templates []models.ScheduleTemplate
	if err := query.Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении расписания: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, templates)
}

// CreateScheduleTemplateHandler создает шаблон еженедельного занятия.
func CreateScheduleTemplateHandler(c *gin.Context) {
	var input models.ScheduleTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	// Время проверяем той же функцией, что и у занятий: одна валидация на всех.
	if _, err := timetable.CombineLocalDateTime("2000-01-03", input.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное время начала: " + err.Error()})
		return
	}

	var group models.Group
	if err := config.DB.First(&group, input.GroupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Группа не найдена"})
		return
	}

	template := models.ScheduleTemplate{
		GroupID:         input.GroupID,
		CoachID:         input.CoachID,
		DayOfWeek:       *input.DayOfWeek,
		StartTime:       normalizeClock(input.StartTime),
		DurationMinutes: input.DurationMinutes,
		Location:        input.Location,
		ValidFrom:       input.ValidFrom,
		ValidTo:         input.ValidTo,
	}
	if err := config.DB.Create(&template).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать шаблон: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, template)
}

// UpdateScheduleTemplateHandler обновляет шаблон.
func UpdateScheduleTemplateHandler(c *gin.Context) {
	id := c.Param("id")
	var input models.ScheduleTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	if _, err := timetable.CombineLocalDateTime("2000-01-03", input.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное время начала: " + err.Error()})
		return
	}

	var template models.ScheduleTemplate
	if err := config.DB.First(&template, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Шаблон не найден"})
		return
	}

	updates := map[string]interface{}{
		"group_id":         input.GroupID,
		"coach_id":         input.CoachID,
		"day_of_week":      *input.DayOfWeek,
		"start_time":       normalizeClock(input.StartTime),
		"duration_minutes": input.DurationMinutes,
		"location":         input.Location,
		"valid_from":       input.ValidFrom,
		"valid_to":         input.ValidTo,
	}
	if err := config.DB.Model(&template).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить шаблон: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Шаблон успешно обновлен"})
}

// DeleteScheduleTemplateHandler удаляет шаблон. Сгенерированные занятия остаются.
func DeleteScheduleTemplateHandler(c *gin.Context) {
	id := c.Param("id")

	result := config.DB.Delete(&models.ScheduleTemplate{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить шаблон"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Шаблон не найден"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Шаблон успешно удален"})
}

// GenerateLessonsHandler материализует занятия из шаблона на выбранный период.
// Уже существующие занятия шаблона на ту же дату не дублируются.
func GenerateLessonsHandler(c *gin.Context) {
	templateID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	var input models.GenerateLessonsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	from, err := timetable.CombineLocalDateTime(input.DateFrom, "00:00")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная дата начала периода: " + err.Error()})
		return
	}
	to, err := timetable.CombineLocalDateTime(input.DateTo, "00:00")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная дата конца периода: " + err.Error()})
		return
	}
	if to.Before(from) || to.Sub(from) > 366*24*time.Hour {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Период должен быть положительным и не длиннее года"})
		return
	}

	var template models.ScheduleTemplate
	if err := config.DB.Preload("Group").First(&template, templateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Шаблон не найден"})
		return
	}

	coachID := template.CoachID
	if coachID == nil && template.Group != nil {
		coachID = template.Group.CoachID
	}

	created := 0
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			if int(day.Weekday()+6)%7 != template.DayOfWeek {
				continue
			}
			if template.ValidFrom != nil && day.Before(*template.ValidFrom) {
				continue
			}
			if template.ValidTo != nil && day.After(*template.ValidTo) {
				continue
			}

			date := day.Format("2006-01-02")
			var exists int64
			tx.Model(&models.Lesson{}).
				Where("template_id = ? AND effective_date = ?", template.ID, date).
				Count(&exists)
			if exists > 0 {
				continue
			}

			templateID := template.ID
			lesson := models.Lesson{
				GroupID:            template.GroupID,
				CoachID:            coachID,
				TemplateID:         &templateID,
				EffectiveDate:      date,
				EffectiveStartTime: template.StartTime,
				DurationMinutes:    template.DurationMinutes,
				Status:             string(timetable.StatusScheduled),
				Location:           template.Location,
			}
			if err := tx.Create(&lesson).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сгенерировать занятия: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Создано занятий: %d", created), "created": created})
}

// SuggestScheduleAIHandler просит Gemini предложить недельное расписание группы.
// Результат - только предложение: сотрудник сохраняет шаблоны обычным CRUD.
func SuggestScheduleAIHandler(c *gin.Context) {
	if config.GeminiClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ИИ-подбор расписания не настроен"})
		return
	}

	groupID := c.Query("group_id")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан параметр group_id"})
		return
	}

	var group models.Group
	if err := config.DB.Preload("Section").First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Группа не найдена"})
		return
	}

	prompt := constructSchedulePrompt(&group)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	iter := config.GeminiClient.GenerateContentStream(ctx, genai.Text(prompt))
	var fullResponse strings.Builder

	for {
		resp, err := iter.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "no more items in iterator") {
				break
			}
			slog.Error("Error during AI stream", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить расписание от ИИ"})
			return
		}
		if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			for _, part := range resp.Candidates[0].Content.Parts {
				if txt, ok := part.(genai.Text); ok {
					fullResponse.WriteString(string(txt))
				}
			}
		}
	}

	cleanJSON := extractJSON(fullResponse.String())
	if cleanJSON == "" {
		slog.Error("AI returned invalid or incomplete data (no valid JSON found)", "response", fullResponse.String())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ИИ вернул некорректные данные. Попробуйте снова."})
		return
	}

	var suggestion map[string][]struct {
		StartTime       string `json:"start_time"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := json.Unmarshal([]byte(cleanJSON), &suggestion); err != nil {
		slog.Error("Failed to parse extracted JSON from AI", "json", cleanJSON, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось разобрать ответ ИИ"})
		return
	}

	// Отбрасываем дни с неизвестными названиями и слоты с битым временем.
	final := make(map[string][]map[string]interface{})
	for day, slots := range suggestion {
		dayIndex := -1
		for i, name := range weekdayNames {
			if name == day {
				dayIndex = i
				break
			}
		}
		if dayIndex == -1 {
			slog.Warn("AI suggested an unknown weekday", "day", day)
			continue
		}

		var valid []map[string]interface{}
		for _, slot := range slots {
			if _, err := timetable.CombineLocalDateTime("2000-01-03", slot.StartTime); err != nil || slot.DurationMinutes <= 0 {
				slog.Warn("AI suggested an invalid slot", "day", day, "slot", slot)
				continue
			}
			valid = append(valid, map[string]interface{}{
				"day_of_week":      dayIndex,
				"start_time":       normalizeClock(slot.StartTime),
				"duration_minutes": slot.DurationMinutes,
			})
		}
		if len(valid) > 0 {
			final[day] = valid
		}
	}

	if len(final) == 0 {
		slog.Warn("AI JSON was valid but resulted in an empty schedule.", "json", cleanJSON)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ИИ сгенерировал пустое расписание. Попробуйте снова."})
		return
	}

	c.JSON(http.StatusOK, final)
}

// constructSchedulePrompt создает строгое задание для ИИ.
func constructSchedulePrompt(group *models.Group) string {
	sport := "спортивной секции"
	if group.Section != nil {
		sport = group.Section.Name
	}
	ageInfo := fmt.Sprintf("от %d лет", group.AgeMin)
	if group.AgeMax != nil {
		ageInfo = fmt.Sprintf("от %d до %d лет", group.AgeMin, *group.AgeMax)
	}

	return fmt.Sprintf(`
	**Критически важная задача**: Предложи недельное расписание тренировок для группы "%s" (%s, возраст %s) в формате JSON.

	**Строгие правила**:
	1.  **Только JSON**: Твой ответ должен быть ИСКЛЮЧИТЕЛЬНО валидным JSON объектом. Никакого текста до или после JSON, никаких markdown-блоков ('''json ... '''), никаких комментариев.
	2.  **Дни недели**: Используй только следующие ключи: "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье".
	3.  **Количество тренировок**: От 2 до 4 в неделю, не в соседние дни, если возможно.
	4.  **Время**: "start_time" строго в формате "HH:mm" с 08:00 до 20:00. Для детских групп - после 15:00.
	5.  **Длительность**: "duration_minutes" - целое число от 45 до 120, кратное 15.
	6.  **Валидность**: Убедись, что JSON синтаксически корректен и не обрывается.

	**Требуемая структура JSON**:
	{
	  "Понедельник": [
		{ "start_time": "18:00", "duration_minutes": 90 }
	  ],
	  "Четверг": [
		{ "start_time": "18:00", "duration_minutes": 90 }
	  ]
	}
	`, group.Name, sport, ageInfo)
}

// extractJSON находит первую валидную и полную JSON-структуру в строке.
// Умеет "вырезать" JSON из markdown-блоков (```json ... ```) и другого
// текстового "мусора" от ИИ.
func extractJSON(raw string) string {
	if jsonBlockStart := strings.Index(raw, "```json"); jsonBlockStart != -1 {
		raw = raw[jsonBlockStart+7:]
		if jsonBlockEnd := strings.Index(raw, "```"); jsonBlockEnd != -1 {
			raw = raw[:jsonBlockEnd]
		}
	} else if blockStart := strings.Index(raw, "```"); blockStart != -1 {
		raw = raw[blockStart+3:]
		if blockEnd := strings.Index(raw, "```"); blockEnd != -1 {
			raw = raw[:blockEnd]
		}
	}

	start := strings.Index(raw, "{")
	if start == -1 {
		return ""
	}

	end := strings.LastIndex(raw, "}")
	if end == -1 || end < start {
		return ""
	}

	potentialJSON := raw[start : end+1]

	if json.Valid([]byte(potentialJSON)) {
		return potentialJSON
	}

	slog.Warn("AI response contained a malformed or incomplete JSON object.", "snippet", potentialJSON)
	return ""
}
