package models

import (
	"time"

	"gorm.io/gorm"
)

type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusReview    DocumentStatus = "review"
	StatusPublished DocumentStatus = "published"
	StatusArchived  DocumentStatus = "archived"
)

// statusTransitions is the editorial state machine. Archived is terminal:
// reactivating an archived document is a Duplicate, not a transition.
var statusTransitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:     {StatusReview, StatusPublished, StatusArchived},
	StatusReview:    {StatusPublished, StatusArchived},
	StatusPublished: {StatusArchived},
	StatusArchived:  {},
}

// CanTransitionTo reports whether the edge s -> to is permitted.
func (s DocumentStatus) CanTransitionTo(to DocumentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Document struct {
	ID               uint             `json:"id" gorm:"primarykey"`
	Slug             string           `json:"slug" gorm:"uniqueIndex;not null"`
	AuthorID         uint             `json:"author_id" gorm:"not null"`
	Author           User             `json:"author" gorm:"foreignKey:AuthorID"`
	CourseID         *uint            `json:"course_id"`
	Course           *Course          `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Status           DocumentStatus   `json:"status" gorm:"default:'draft'"`
	PublishedAt      *time.Time       `json:"published_at"`
	CurrentVersionID *uint            `json:"current_version_id"`
	CurrentVersion   *DocumentVersion `json:"current_version,omitempty" gorm:"foreignKey:CurrentVersionID"`
	Versions         []DocumentVersion `json:"versions,omitempty" gorm:"foreignKey:DocumentID"`

	// Denormalized mirror of the current version, kept in sync by the
	// document service on every version creation. Convenience for read
	// paths only; version rows are the source of truth for history.
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	Content     string `json:"content" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
