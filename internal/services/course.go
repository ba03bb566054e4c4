package services

import (
	"context"

	"github.com/coursedb/apiserver/internal/store"
	"github.com/coursedb/apiserver/types"
)

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	List(ctx context.Context) ([]types.Course, error)
	Get(ctx context.Context, id string) (types.Course, error)
	GetByName(ctx context.Context, name string) ([]types.Course, error)
	Create(ctx context.Context, course types.Course) (types.Course, error)
	Update(ctx context.Context, id string, params store.UpdateCourseParams) (types.Course, error)
	Delete(ctx context.Context, id string) (types.Course, error)
}

// CourseService encapsulates course use-cases.
type CourseService struct {
	repo CourseRepository
}

func NewCourseService(repo CourseRepository) *CourseService {
	return &CourseService{repo: repo}
}

func (s *CourseService) List(ctx context.Context) ([]types.Course, error) {
	return s.repo.List(ctx)
}

func (s *CourseService) Get(ctx context.Context, id string) (types.Course, error) {
	return s.repo.Get(ctx, id)
}

func (s *CourseService) GetByName(ctx context.Context, name string) ([]types.Course, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *CourseService) Create(ctx context.Context, course types.Course) (types.Course, error) {
	return s.repo.Create(ctx, course)
}

func (s *CourseService) Update(ctx context.Context, id string, params store.UpdateCourseParams) (types.Course, error) {
	return s.repo.Update(ctx, id, params)
}

func (s *CourseService) Delete(ctx context.Context, id string) (types.Course, error) {
	return s.repo.Delete(ctx, id)
}
