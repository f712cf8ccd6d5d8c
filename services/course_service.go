package services

import (
	"errors"

	"lms-backoffice/models"
	"lms-backoffice/repositories"

	"gorm.io/gorm"
)

type CourseService interface {
	CreateCourse(req models.CreateCourseRequest) (*models.Course, error)
	GetCourses() ([]models.Course, error)
	GetCourse(id uint) (*models.Course, error)
}

type courseService struct {
	courseRepo repositories.CourseRepository
}

func NewCourseService(courseRepo repositories.CourseRepository) CourseService {
	return &courseService{courseRepo: courseRepo}
}

func (s *courseService) CreateCourse(req models.CreateCourseRequest) (*models.Course, error) {
	_, err := s.courseRepo.GetByCode(req.Code)
	if err == nil {
		return nil, errors.New("course code already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course := &models.Course{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.courseRepo.Create(course); err != nil {
		return nil, err
	}

	return course, nil
}

func (s *courseService) GetCourses() ([]models.Course, error) {
	return s.courseRepo.GetAll()
}

func (s *courseService) GetCourse(id uint) (*models.Course, error) {
	return s.courseRepo.GetByID(id)
}
