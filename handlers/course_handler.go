package handlers

import (
	"strconv"

	"lms-backoffice/helper"
	"lms-backoffice/models"
	"lms-backoffice/services"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseService services.CourseService
	Helper        *helper.HTTPHelper
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		Helper:        &helper.HTTPHelper{},
	}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	course, err := h.courseService.CreateCourse(req)
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Course created", course)
}

func (h *CourseHandler) GetCourses(c *gin.Context) {
	courses, err := h.courseService.GetCourses()
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Courses loaded", courses)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid course ID", h.Helper.EmptyJsonMap())
		return
	}

	course, err := h.courseService.GetCourse(uint(id))
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Course loaded", course)
}
