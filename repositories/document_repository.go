package repositories

import (
	"errors"
	"fmt"

	"lms-backoffice/models"

	"gorm.io/gorm"
)

type DocumentRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) DocumentRepository
	Create(document *models.Document) error
	GetByID(id uint) (*models.Document, error)
	GetBySlug(slug string) (*models.Document, error)
	GetList(params models.DocumentListParams, publicOnly bool) ([]models.Document, int64, error)
	Update(document *models.Document) error
	Delete(id uint) error
	CountByCourse() (map[uint]int, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) WithTx(tx *gorm.DB) DocumentRepository {
	return &documentRepository{db: tx}
}

func (r *documentRepository) Create(document *models.Document) error {
	return r.db.Create(document).Error
}

func (r *documentRepository) GetByID(id uint) (*models.Document, error) {
	var document models.Document
	err := r.db.Preload("Author").
		Preload("Course").
		Preload("CurrentVersion").
		First(&document, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrDocumentNotFound
	}
	return &document, err
}

func (r *documentRepository) GetBySlug(slug string) (*models.Document, error) {
	var document models.Document
	err := r.db.Where("slug = ?", slug).First(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrDocumentNotFound
	}
	return &document, err
}

var sortableColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"title":        true,
	"published_at": true,
}

func (r *documentRepository) GetList(params models.DocumentListParams, publicOnly bool) ([]models.Document, int64, error) {
	var documents []models.Document
	var total int64

	query := r.db.Model(&models.Document{}).Preload("Author").Preload("Course")

	if publicOnly {
		query = query.Where("status = ?", models.StatusPublished)
	} else if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.AuthorID > 0 {
		query = query.Where("author_id = ?", params.AuthorID)
	}
	if params.CourseID > 0 {
		query = query.Where("course_id = ?", params.CourseID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := params.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := params.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	offset := (params.Page - 1) * params.Limit
	err := query.Offset(offset).Limit(params.Limit).Find(&documents).Error

	return documents, total, err
}

func (r *documentRepository) Update(document *models.Document) error {
	return r.db.Save(document).Error
}

func (r *documentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Document{}, id).Error
}

// CountByCourse returns the number of live documents per course.
func (r *documentRepository) CountByCourse() (map[uint]int, error) {
	var results []struct {
		CourseID uint
		Count    int
	}

	err := r.db.Model(&models.Document{}).
		Select("course_id, COUNT(*) as count").
		Where("course_id IS NOT NULL").
		Group("course_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int)
	for _, result := range results {
		counts[result.CourseID] = result.Count
	}
	return counts, nil
}
