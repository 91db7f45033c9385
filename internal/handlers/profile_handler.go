// tensu-crm/internal/handlers/profile_handler.go

package handlers

import (
	"net/http"
	"time"

	"tensu-crm/config"
	"tensu-crm/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// GetProfileHandler возвращает профиль текущего сотрудника.
//
// GET /api/profile
func GetProfileHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := config.DB.Preload("Roles").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfileInput - поля профиля, которые сотрудник может менять сам.
// Логин, статус и роли меняет только администратор через users_*.
type UpdateProfileInput struct {
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	PhotoURL  string     `json:"photo_url"`
	BirthDate *time.Time `json:"birth_date"`
	Password  string     `json:"password"`
}

// UpdateProfileHandler обновляет профиль текущего сотрудника.
//
// PUT /api/profile
func UpdateProfileHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.PhotoURL != "" {
		user.PhotoURL = input.PhotoURL
	}
	if input.BirthDate != nil {
		user.BirthDate = input.BirthDate
	}
	if input.Password != "" {
		if len(input.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Пароль должен быть не короче 6 символов"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить пароль"})
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при сохранении профиля: " + err.Error()})
		return
	}

	// Кэш авторизации устарел
	dropUserCache(user.ID)

	config.DB.Preload("Roles").First(&user, user.ID)
	c.JSON(http.StatusOK, toUserResponse(user))
}
