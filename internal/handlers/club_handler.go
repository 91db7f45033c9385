// tensu-crm/internal/handlers/club_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"tensu-crm/config"
	"tensu-crm/models"

	"github.com/gin-gonic/gin"
)

// ListClubsHandler возвращает список клубов.
// Поддерживает пагинацию и может вернуть все клубы, если передан параметр `?all=true`.
func ListClubsHandler(c *gin.Context) {
	var clubs []models.ClubResponse

	query := config.DB.Table("clubs").
		Select(`clubs.id, clubs.name, clubs.city, clubs.address, clubs.phone,
            clubs.description, clubs.logo_url,
            (SELECT COUNT(*) FROM sections s WHERE s.club_id = clubs.id AND s.deleted_at IS NULL) as section_count`).
		Where("clubs.deleted_at IS NULL").
		Order("clubs.name")

	if c.Query("all") == "true" {
		if err := query.Scan(&clubs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка клубов: " + err.Error()})
			return
		}
	} else {
		if err := query.Scopes(Paginate(c)).Scan(&clubs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка клубов: " + err.Error()})
			return
		}
	}

	if clubs == nil {
		clubs = make([]models.ClubResponse, 0)
	}

	if c.Query("all") == "true" {
		c.JSON(http.StatusOK, clubs)
	} else {
		var totalRows int64
		config.DB.Model(&models.Club{}).Count(&totalRows)
		c.JSON(http.StatusOK, CreatePaginatedResponse(c, clubs, totalRows))
	}
}

// CreateClubHandler для создания нового клуба
func CreateClubHandler(c *gin.Context) {
	var input models.ClubInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	club := models.Club{
		Name:        input.Name,
		City:        input.City,
		Address:     input.Address,
		Phone:       input.Phone,
		Description: input.Description,
		LogoURL:     input.LogoURL,
	}
	if err := config.DB.Create(&club).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать клуб: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, club)
}

// GetClubHandler для получения одного клуба по ID
func GetClubHandler(c *gin.Context) {
	id := c.Param("id")

	var club models.Club
	if err := config.DB.First(&club, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Клуб не найден"})
		return
	}

	c.JSON(http.StatusOK, club)
}

// UpdateClubHandler для обновления клуба
func UpdateClubHandler(c *gin.Context) {
	id := c.Param("id")
	var input models.ClubInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	var club models.Club
	if err := config.DB.First(&club, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Клуб не найден"})
		return
	}

	updateData := models.Club{
		Name:        input.Name,
		City:        input.City,
		Address:     input.Address,
		Phone:       input.Phone,
		Description: input.Description,
		LogoURL:     input.LogoURL,
	}
	if err := config.DB.Model(&club).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить клуб: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Клуб успешно обновлен"})
}

// DeleteClubHandler для удаления клуба
func DeleteClubHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	var sectionCount int64
	config.DB.Model(&models.Section{}).Where("club_id = ?", id).Count(&sectionCount)
	if sectionCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Нельзя удалить клуб, в нем есть %d секций.", sectionCount)})
		return
	}

	result := config.DB.Delete(&models.Club{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить клуб: " + result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Клуб не найден"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Клуб успешно удален"})
}
