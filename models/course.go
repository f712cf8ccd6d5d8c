package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	Code          string         `json:"code" gorm:"uniqueIndex;not null"`
	Name          string         `json:"name" gorm:"not null"`
	Description   string         `json:"description"`
	DocumentCount int            `json:"document_count" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}
