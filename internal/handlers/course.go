package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coursedb/apiserver/internal/services"
	"github.com/coursedb/apiserver/internal/store"
	"github.com/coursedb/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// CourseHandler provides HTTP handlers for courses.
type CourseHandler struct {
	courseService *services.CourseService
	validate      *validator.Validate
}

// NewCourseHandler constructs a handler with the provided dependencies.
func NewCourseHandler(courseService *services.CourseService, v *validator.Validate) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		validate:      v,
	}
}

// CourseRouter registers course routes on the given router.
func CourseRouter(r chi.Router, courseService *services.CourseService, v *validator.Validate) {
	handler := NewCourseHandler(courseService, v)

	r.Get("/", handler.ListCourses)
	r.Post("/", handler.CreateCourse)
	r.Route("/{courseID}", func(r chi.Router) {
		r.Get("/", handler.GetCourse)
		r.Put("/", handler.UpdateCourse)
		r.Delete("/", handler.DeleteCourse)
	})
}

type CreateCourseRequest struct {
	Name        string     `json:"name" validate:"required,min=4,max=60"`
	Author      string     `json:"author" validate:"required,min=4,max=60"`
	Tags        []string   `json:"tags"`
	Date        *time.Time `json:"date"`
	Price       float64    `json:"price" validate:"required_if=IsPublished true"`
	IsPublished bool       `json:"is_published"`
}

type UpdateCourseRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=4,max=60"`
	Author      *string   `json:"author" validate:"omitempty,min=4,max=60"`
	Tags        *[]string `json:"tags"`
	Price       *float64  `json:"price"`
	IsPublished *bool     `json:"is_published"`
}

// ListCourses returns all courses, or all courses with an exact name
// when the name query parameter is set.
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	var (
		courses []types.Course
		err     error
	)
	if name := r.URL.Query().Get("name"); name != "" {
		courses, err = h.courseService.GetByName(r.Context(), name)
	} else {
		courses, err = h.courseService.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list courses")
		return
	}

	writeJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "courseID")

	course, err := h.courseService.Get(r.Context(), id)
	if err != nil {
		writeCourseError(w, err, "failed to fetch course")
		return
	}

	writeJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	course := types.Course{
		Name:        req.Name,
		Author:      req.Author,
		Tags:        req.Tags,
		Price:       req.Price,
		IsPublished: req.IsPublished,
	}
	if req.Date != nil {
		course.Date = *req.Date
	}

	created, err := h.courseService.Create(r.Context(), course)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create course")
		return
	}

	writeJSON(w, http.StatusOK, created)
}

func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "courseID")

	var req UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	updated, err := h.courseService.Update(r.Context(), id, store.UpdateCourseParams{
		Name:        req.Name,
		Author:      req.Author,
		Tags:        req.Tags,
		Price:       req.Price,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		writeCourseError(w, err, "failed to update course")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "courseID")

	removed, err := h.courseService.Delete(r.Context(), id)
	if err != nil {
		writeCourseError(w, err, "failed to delete course")
		return
	}

	writeJSON(w, http.StatusOK, removed)
}

func writeCourseError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid course id")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "course not found")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
