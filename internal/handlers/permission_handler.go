// tensu-crm/internal/handlers/permission_handler.go
package handlers

import (
	"net/http"

	"tensu-crm/config"
	"tensu-crm/models"

	"github.com/gin-gonic/gin"
)

// ListPermissionsHandler возвращает все права доступа, сгруппированные по категориям.
func ListPermissionsHandler(c *gin.Context) {
	var permissions []models.Permission
	if err := config.DB.Order("category, name").Find(&permissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список прав"})
		return
	}
	c.JSON(http.StatusOK, permissions)
}

// CreatePermissionHandler создает новое право доступа.
func CreatePermissionHandler(c *gin.Context) {
	var permission models.Permission
	if err := c.ShouldBindJSON(&permission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	if err := config.DB.Create(&permission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать право: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, permission)
}

// UpdatePermissionHandler обновляет право доступа.
func UpdatePermissionHandler(c *gin.Context) {
	id := c.Param("id")

	var permission models.Permission
	if err := config.DB.First(&permission, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Право не найдено"})
		return
	}

	var input models.Permission
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	permission.Name = input.Name
	permission.Description = input.Description
	permission.Category = input.Category
	if err := config.DB.Save(&permission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить право: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, permission)
}

// DeletePermissionHandler удаляет право доступа.
func DeletePermissionHandler(c *gin.Context) {
	id := c.Param("id")

	result := config.DB.Delete(&models.Permission{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить право"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Право не найдено"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Право успешно удалено"})
}
