package repositories

import (
	"lms-backoffice/models"

	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *models.Course) error
	GetByCode(code string) (*models.Course, error)
	GetByID(id uint) (*models.Course, error)
	GetAll() ([]models.Course, error)
	BulkUpdate(courses []models.Course) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) GetByCode(code string) (*models.Course, error) {
	var course models.Course
	err := r.db.Where("code = ?", code).First(&course).Error
	return &course, err
}

func (r *courseRepository) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.First(&course, id).Error
	return &course, err
}

func (r *courseRepository) GetAll() ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Order("code asc").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) BulkUpdate(courses []models.Course) error {
	return r.db.Save(&courses).Error
}
