// tensu-crm/internal/handlers/section_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"tensu-crm/config"
	"tensu-crm/models"

	"github.com/Knetic/govaluate"
	"github.com/gin-gonic/gin"
)

// ListSectionsHandler возвращает список секций, опционально отфильтрованный по клубу.
func ListSectionsHandler(c *gin.Context) {
	var sections []models.SectionResponse

	query := config.DB.Table("sections s").
		Select(`s.id, s.club_id, c.name as club_name, s.name, s.description, s.eligibility_rule,
            (SELECT COUNT(*) FROM groups g WHERE g.section_id = s.id AND g.deleted_at IS NULL) as group_count`).
		Joins("LEFT JOIN clubs c ON s.club_id = c.id").
		Where("s.deleted_at IS NULL").
		Order("c.name, s.name")

	if clubID := c.Query("club_id"); clubID != "" {
		query = query.Where("s.club_id = ?", clubID)
	}

	if c.Query("all") == "true" {
		if err := query.Scan(&sections).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка секций: " + err.Error()})
			return
		}
		if sections == nil {
			sections = make([]models.SectionResponse, 0)
		}
		c.JSON(http.StatusOK, sections)
		return
	}

	var totalRows int64
	config.DB.Model(&models.Section{}).Count(&totalRows)
	if err := query.Scopes(Paginate(c)).Scan(&sections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка секций: " + err.Error()})
		return
	}
	if sections == nil {
		sections = make([]models.SectionResponse, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, sections, totalRows))
}

// CreateSectionHandler для создания новой секции
func CreateSectionHandler(c *gin.Context) {
	var input models.SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	if err := validateEligibilityRule(input.EligibilityRule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное правило допуска: " + err.Error()})
		return
	}

	var club models.Club
	if err := config.DB.First(&club, input.ClubID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Клуб не найден"})
		return
	}

	section := models.Section{
		ClubID:          input.ClubID,
		Name:            input.Name,
		Description:     input.Description,
		EligibilityRule: input.EligibilityRule,
	}
	if err := config.DB.Create(&section).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать секцию: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, section)
}

// GetSectionHandler для получения одной секции по ID
func GetSectionHandler(c *gin.Context) {
	id := c.Param("id")

	var section models.Section
	if err := config.DB.Preload("Club").First(&section, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Секция не найдена"})
		return
	}

	c.JSON(http.StatusOK, section)
}

// UpdateSectionHandler для обновления секции
func UpdateSectionHandler(c *gin.Context) {
	id := c.Param("id")
	var input models.SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	if err := validateEligibilityRule(input.EligibilityRule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное правило допуска: " + err.Error()})
		return
	}

	var section models.Section
	if err := config.DB.First(&section, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Секция не найдена"})
		return
	}

	updates := map[string]interface{}{
		"club_id":          input.ClubID,
		"name":             input.Name,
		"description":      input.Description,
		"eligibility_rule": input.EligibilityRule,
	}
	if err := config.DB.Model(&section).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить секцию: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Секция успешно обновлена"})
}

// DeleteSectionHandler для удаления секции
func DeleteSectionHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	var groupCount int64
	config.DB.Model(&models.Group{}).Where("section_id = ?", id).Count(&groupCount)
	if groupCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Нельзя удалить секцию, в ней есть %d групп.", groupCount)})
		return
	}

	result := config.DB.Delete(&models.Section{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить секцию: " + result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Секция не найдена"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Секция успешно удалена"})
}

// validateEligibilityRule проверяет, что правило допуска хотя бы парсится.
// Пустое правило валидно - допуск без ограничений.
func validateEligibilityRule(rule string) error {
	if rule == "" {
		return nil
	}
	_, err := govaluate.NewEvaluableExpression(rule)
	return err
}
