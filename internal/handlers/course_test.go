package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursedb/apiserver/internal/services"
	"github.com/coursedb/apiserver/internal/store"
	"github.com/coursedb/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCourseRepo struct {
	courses map[string]types.Course
	err     error
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]types.Course)}
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]types.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	courses := make([]types.Course, 0, len(f.courses))
	for _, c := range f.courses {
		courses = append(courses, c)
	}
	return courses, nil
}

func (f *fakeCourseRepo) Get(ctx context.Context, id string) (types.Course, error) {
	if f.err != nil {
		return types.Course{}, f.err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return types.Course{}, store.ErrInvalidID
	}
	course, ok := f.courses[id]
	if !ok {
		return types.Course{}, store.ErrNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) GetByName(ctx context.Context, name string) ([]types.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	courses := make([]types.Course, 0)
	for _, c := range f.courses {
		if c.Name == name {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course types.Course) (types.Course, error) {
	if f.err != nil {
		return types.Course{}, f.err
	}
	course.ID = primitive.NewObjectID()
	f.courses[course.ID.Hex()] = course
	return course, nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, id string, params store.UpdateCourseParams) (types.Course, error) {
	course, err := f.Get(ctx, id)
	if err != nil {
		return types.Course{}, err
	}
	if params.Name != nil {
		course.Name = *params.Name
	}
	if params.Author != nil {
		course.Author = *params.Author
	}
	if params.Tags != nil {
		course.Tags = *params.Tags
	}
	if params.Price != nil {
		course.Price = *params.Price
	}
	if params.IsPublished != nil {
		course.IsPublished = *params.IsPublished
	}
	f.courses[id] = course
	return course, nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) (types.Course, error) {
	course, err := f.Get(ctx, id)
	if err != nil {
		return types.Course{}, err
	}
	delete(f.courses, id)
	return course, nil
}

func newCourseTestRouter(repo services.CourseRepository) *chi.Mux {
	router := chi.NewRouter()
	router.Route("/courses", func(r chi.Router) {
		CourseRouter(r, services.NewCourseService(repo), validator.New())
	})
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateCourseShortName(t *testing.T) {
	router := newCourseTestRouter(newFakeCourseRepo())

	rec := postJSON(t, router, "/courses", map[string]any{
		"name":   "Go",
		"author": "Midhun",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name")
}

func TestCreateCoursePublishedWithoutPrice(t *testing.T) {
	router := newCourseTestRouter(newFakeCourseRepo())

	rec := postJSON(t, router, "/courses", map[string]any{
		"name":         "Mastering Go",
		"author":       "Midhun",
		"is_published": true,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "price")
}

func TestCreateCourse(t *testing.T) {
	router := newCourseTestRouter(newFakeCourseRepo())

	rec := postJSON(t, router, "/courses", map[string]any{
		"name":         "Mastering Go",
		"author":       "Midhun",
		"tags":         []string{"go", "backend"},
		"price":        49.99,
		"is_published": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var created types.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Mastering Go", created.Name)
	assert.Equal(t, []string{"go", "backend"}, created.Tags)
}

func TestGetCourseInvalidID(t *testing.T) {
	router := newCourseTestRouter(newFakeCourseRepo())

	req := httptest.NewRequest(http.MethodGet, "/courses/not-a-hex-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCourseNotFound(t *testing.T) {
	router := newCourseTestRouter(newFakeCourseRepo())

	req := httptest.NewRequest(http.MethodGet, "/courses/"+primitive.NewObjectID().Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCoursesByName(t *testing.T) {
	repo := newFakeCourseRepo()
	router := newCourseTestRouter(repo)

	for _, author := range []string{"Midhun", "Someone Else"} {
		rec := postJSON(t, router, "/courses", map[string]any{
			"name":   "Mastering Go",
			"author": author,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := postJSON(t, router, "/courses", map[string]any{
		"name":   "Another Course",
		"author": "Midhun",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/courses?name=Mastering+Go", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)

	var courses []types.Course
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &courses))
	require.Len(t, courses, 2)
	for _, c := range courses {
		assert.Equal(t, "Mastering Go", c.Name)
	}
}

func TestUpdateCourseUnknownID(t *testing.T) {
	router := newCourseTestRouter(newFakeCourseRepo())

	raw, err := json.Marshal(map[string]any{"name": "Renamed Course"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/courses/"+primitive.NewObjectID().Hex(), bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateCourseAppliesOnlyProvidedFields(t *testing.T) {
	repo := newFakeCourseRepo()
	router := newCourseTestRouter(repo)

	rec := postJSON(t, router, "/courses", map[string]any{
		"name":   "Mastering Go",
		"author": "Midhun",
		"tags":   []string{"go"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var created types.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	raw, err := json.Marshal(map[string]any{"name": "Mastering Go, Second Edition"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/courses/"+created.ID.Hex(), bytes.NewReader(raw))
	updRec := httptest.NewRecorder()
	router.ServeHTTP(updRec, req)
	require.Equal(t, http.StatusOK, updRec.Code)

	var updated types.Course
	require.NoError(t, json.Unmarshal(updRec.Body.Bytes(), &updated))
	assert.Equal(t, "Mastering Go, Second Edition", updated.Name)
	assert.Equal(t, "Midhun", updated.Author)
	assert.Equal(t, []string{"go"}, updated.Tags)
}

func TestDeleteCourseReturnsPriorState(t *testing.T) {
	repo := newFakeCourseRepo()
	router := newCourseTestRouter(repo)

	rec := postJSON(t, router, "/courses", map[string]any{
		"name":   "Mastering Go",
		"author": "Midhun",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var created types.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodDelete, "/courses/"+created.ID.Hex(), nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, req)
	require.Equal(t, http.StatusOK, delRec.Code)

	var removed types.Course
	require.NoError(t, json.Unmarshal(delRec.Body.Bytes(), &removed))
	assert.Equal(t, created.ID, removed.ID)
	assert.Equal(t, "Mastering Go", removed.Name)

	getReq := httptest.NewRequest(http.MethodGet, "/courses/"+created.ID.Hex(), nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusNotFound, getRec.Code)
}
