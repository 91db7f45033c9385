// tensu-crm/internal/handlers/group_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"tensu-crm/config"
	"tensu-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListGroupsHandler возвращает список групп со сводкой: секция, тренер, число учеников.
func ListGroupsHandler(c *gin.Context) {
	var groups []models.GroupResponse

	query := config.DB.Table("groups g").
		Select(`g.id, g.section_id, s.name as section_name, g.name,
            COALESCE(u.full_name, 'Не назначен') as coach_name,
            g.age_min, g.age_max, g.capacity,
            (SELECT COUNT(*) FROM students st WHERE st.group_id = g.id AND st.deleted_at IS NULL) as student_count`).
		Joins("LEFT JOIN sections s ON g.section_id = s.id").
		Joins("LEFT JOIN users u ON g.coach_id = u.id").
		Where("g.deleted_at IS NULL").
		Order("s.name, g.name")

	if sectionID := c.Query("section_id"); sectionID != "" {
		query = query.Where("g.section_id = ?", sectionID)
	}
	if clubID := c.Query("club_id"); clubID != "" {
		query = query.Where("s.club_id = ?", clubID)
	}
	if coachID := c.Query("coach_id"); coachID != "" {
		query = query.Where("g.coach_id = ?", coachID)
	}

	if c.Query("all") == "true" {
		if err := query.Scan(&groups).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка групп: " + err.Error()})
			return
		}
		if groups == nil {
			groups = make([]models.GroupResponse, 0)
		}
		c.JSON(http.StatusOK, groups)
		return
	}

	var totalRows int64
	config.DB.Model(&models.Group{}).Count(&totalRows)
	if err := query.Scopes(Paginate(c)).Scan(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка групп: " + err.Error()})
		return
	}
	if groups == nil {
		groups = make([]models.GroupResponse, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, groups, totalRows))
}

// CreateGroupHandler для создания новой группы
func CreateGroupHandler(c *gin.Context) {
	var input models.GroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	var section models.Section
	if err := config.DB.First(&section, input.SectionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Секция не найдена"})
		return
	}

	group := models.Group{
		SectionID: input.SectionID,
		Name:      input.Name,
		CoachID:   input.CoachID,
		AgeMin:    input.AgeMin,
		AgeMax:    input.AgeMax,
		Capacity:  input.Capacity,
	}
	if err := config.DB.Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать группу: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, group)
}

// GetGroupHandler для получения одной группы по ID вместе с составом.
func GetGroupHandler(c *gin.Context) {
	id := c.Param("id")

	var group models.Group
	if err := config.DB.Preload("Section").Preload("Coach").First(&group, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Группа не найдена"})
		return
	}

	var students []models.Student
	config.DB.Where("group_id = ?", id).Order("last_name, first_name").Find(&students)

	c.JSON(http.StatusOK, gin.H{
		"group":    group,
		"students": students,
	})
}

// UpdateGroupHandler для обновления группы
func UpdateGroupHandler(c *gin.Context) {
	id := c.Param("id")
	var input models.GroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, id).Error; err != nil {
			return fmt.Errorf("группа с ID %s не найдена", id)
		}

		updates := map[string]interface{}{
			"section_id": input.SectionID,
			"name":       input.Name,
			"coach_id":   input.CoachID,
			"age_min":    input.AgeMin,
			"age_max":    input.AgeMax,
			"capacity":   input.Capacity,
		}
		return tx.Model(&group).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить группу: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Группа успешно обновлена"})
}

// DeleteGroupHandler для удаления группы
func DeleteGroupHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	var studentCount int64
	config.DB.Model(&models.Student{}).Where("group_id = ?", id).Count(&studentCount)
	if studentCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Нельзя удалить группу, в ней есть %d учеников.", studentCount)})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.ScheduleTemplate{}).Error; err != nil {
			return err
		}
		if result := tx.Delete(&models.Group{}, id); result.Error != nil {
			return result.Error
		} else if result.RowsAffected == 0 {
			return fmt.Errorf("группа не найдена")
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить группу: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Группа успешно удалена"})
}
