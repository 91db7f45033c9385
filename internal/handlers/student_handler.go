// tensu-crm/internal/handlers/student_handler.go

package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"tensu-crm/config"
	"tensu-crm/models"

	"github.com/Knetic/govaluate"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListStudentsHandler возвращает список учеников с поиском и фильтром по группе.
func ListStudentsHandler(c *gin.Context) {
	var students []models.Student

	query := config.DB.Preload("Group").Order("last_name, first_name")

	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(last_name) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(parent_phone) LIKE ?", pattern, pattern, pattern)
	}

	var totalRows int64
	query.Model(&models.Student{}).Count(&totalRows)

	if err := query.Scopes(Paginate(c)).Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка учеников: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, students, totalRows))
}

// CreateStudentHandler для создания нового ученика
func CreateStudentHandler(c *gin.Context) {
	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	student := models.Student{
		LastName:    input.LastName,
		FirstName:   input.FirstName,
		MiddleName:  input.MiddleName,
		Gender:      input.Gender,
		BirthDate:   input.BirthDate,
		Phone:       input.Phone,
		Email:       input.Email,
		ParentName:  input.ParentName,
		ParentPhone: input.ParentPhone,
		Comments:    input.Comments,
	}

	// Зачисление при создании проходит те же проверки, что и явное зачисление.
	if input.GroupID != nil {
		if err := checkEnrollment(config.DB, &student, *input.GroupID); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		student.GroupID = input.GroupID
	}

	if err := config.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать ученика: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, student)
}

// GetStudentHandler для получения одного ученика по ID
func GetStudentHandler(c *gin.Context) {
	id := c.Param("id")

	var student models.Student
	if err := config.DB.Preload("Group").Preload("Group.Section").First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
		return
	}

	c.JSON(http.StatusOK, student)
}

// UpdateStudentHandler для обновления данных ученика
func UpdateStudentHandler(c *gin.Context) {
	id := c.Param("id")
	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
		return
	}

	updates := map[string]interface{}{
		"last_name":    input.LastName,
		"first_name":   input.FirstName,
		"middle_name":  input.MiddleName,
		"gender":       input.Gender,
		"birth_date":   input.BirthDate,
		"phone":        input.Phone,
		"email":        input.Email,
		"parent_name":  input.ParentName,
		"parent_phone": input.ParentPhone,
		"comments":     input.Comments,
	}
	if err := config.DB.Model(&student).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить ученика: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Данные ученика обновлены"})
}

// DeleteStudentHandler для удаления ученика
func DeleteStudentHandler(c *gin.Context) {
	id := c.Param("id")

	result := config.DB.Delete(&models.Student{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить ученика: " + result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ученик успешно удален"})
}

// EnrollStudentHandler зачисляет ученика в группу с проверкой вместимости
// и правила допуска секции.
func EnrollStudentHandler(c *gin.Context) {
	id := c.Param("id")

	var input models.EnrollmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
		return
	}

	if err := checkEnrollment(config.DB, &student, input.GroupID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Model(&student).Update("group_id", input.GroupID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось зачислить ученика: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ученик зачислен в группу"})
}

// ExpelStudentHandler отчисляет ученика из текущей группы.
func ExpelStudentHandler(c *gin.Context) {
	id := c.Param("id")

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ученик не найден"})
		return
	}
	if student.GroupID == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Ученик не зачислен ни в одну группу"})
		return
	}

	if err := config.DB.Model(&student).Update("group_id", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось отчислить ученика: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ученик отчислен из группы"})
}

// checkEnrollment проверяет вместимость группы и правило допуска ее секции.
func checkEnrollment(db *gorm.DB, student *models.Student, groupID uint) error {
	var group models.Group
	if err := db.Preload("Section").First(&group, groupID).Error; err != nil {
		return fmt.Errorf("группа не найдена")
	}

	if group.Capacity > 0 {
		var enrolled int64
		db.Model(&models.Student{}).Where("group_id = ?", groupID).Count(&enrolled)
		if enrolled >= int64(group.Capacity) {
			return fmt.Errorf("группа заполнена (%d из %d мест)", enrolled, group.Capacity)
		}
	}

	if group.Section != nil && group.Section.EligibilityRule != "" {
		expr, err := govaluate.NewEvaluableExpression(group.Section.EligibilityRule)
		if err != nil {
			return fmt.Errorf("правило допуска секции повреждено: %v", err)
		}

		params := map[string]interface{}{
			"age":    studentAge(student, time.Now()),
			"gender": student.Gender,
		}
		result, err := expr.Evaluate(params)
		if err != nil {
			return fmt.Errorf("не удалось проверить правило допуска: %v", err)
		}
		if ok, isBool := result.(bool); !isBool || !ok {
			return fmt.Errorf("ученик не проходит по правилу допуска секции: %s", group.Section.EligibilityRule)
		}
	}

	return nil
}

// studentAge считает полных лет на момент now. Без даты рождения возвращает 0:
// правило с условием по возрасту такого ученика не пропустит.
func studentAge(student *models.Student, now time.Time) int {
	if student.BirthDate == nil {
		return 0
	}
	age := now.Year() - student.BirthDate.Year()
	if now.YearDay() < student.BirthDate.YearDay() {
		age--
	}
	return age
}
