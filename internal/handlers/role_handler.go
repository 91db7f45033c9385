// tensu-crm/internal/handlers/role_handler.go
package handlers

import (
	"net/http"

	"tensu-crm/config"
	"tensu-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RoleInput используется при создании/обновлении роли.
type RoleInput struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	PermissionIDs []uint `json:"permissionIds"`
}

// ListRolesHandler возвращает все роли вместе с правами.
func ListRolesHandler(c *gin.Context) {
	var roles []models.Role
	if err := config.DB.Preload("Permissions").Order("id asc").Find(&roles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список ролей"})
		return
	}
	c.JSON(http.StatusOK, roles)
}

// GetRoleHandler возвращает одну роль по ID.
func GetRoleHandler(c *gin.Context) {
	id := c.Param("id")
	var role models.Role
	if err := config.DB.Preload("Permissions").First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Роль не найдена"})
		return
	}
	c.JSON(http.StatusOK, role)
}

// CreateRoleHandler создает роль и привязывает права.
func CreateRoleHandler(c *gin.Context) {
	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	role := models.Role{Name: input.Name, Description: input.Description}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		if len(input.PermissionIDs) > 0 {
			var permissions []models.Permission
			if err := tx.Find(&permissions, input.PermissionIDs).Error; err != nil {
				return err
			}
			return tx.Model(&role).Association("Permissions").Replace(permissions)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать роль: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, role)
}

// UpdateRoleHandler обновляет роль и ее набор прав.
func UpdateRoleHandler(c *gin.Context) {
	id := c.Param("id")
	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	var role models.Role
	if err := config.DB.First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Роль не найдена"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&role).Updates(models.Role{Name: input.Name, Description: input.Description}).Error; err != nil {
			return err
		}
		var permissions []models.Permission
		if len(input.PermissionIDs) > 0 {
			if err := tx.Find(&permissions, input.PermissionIDs).Error; err != nil {
				return err
			}
		}
		return tx.Model(&role).Association("Permissions").Replace(permissions)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить роль: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Роль успешно обновлена"})
}

// DeleteRoleHandler удаляет роль.
func DeleteRoleHandler(c *gin.Context) {
	id := c.Param("id")

	result := config.DB.Delete(&models.Role{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить роль"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Роль не найдена"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Роль успешно удалена"})
}
