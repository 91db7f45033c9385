// tensu-crm/models/club.go
package models

import "gorm.io/gorm"

// Club представляет спортивный клуб (филиал) платформы.
type Club struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	LogoURL     string `json:"logoUrl"`
}

// ClubInput используется для привязки данных из JSON-запроса
// при создании или обновлении клуба.
type ClubInput struct {
	Name        string `json:"name" binding:"required"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

// ClubResponse - структура для ответа API со сводкой по клубу.
type ClubResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Description  string `json:"description"`
	LogoURL      string `json:"logo_url"`
	SectionCount int    `json:"section_count"`
}
