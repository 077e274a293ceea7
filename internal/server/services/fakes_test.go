package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/dbx"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
	"github.com/dmitrijs2005/goinglive/internal/server/repositories/courses"
	"github.com/dmitrijs2005/goinglive/internal/server/repositories/media"
	"github.com/dmitrijs2005/goinglive/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	created *models.User
	byLogin map[string]*models.User
	byID    map[string]*models.User

	createErr error
	getErr    error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *u
	out.ID = "user-" + u.UserName
	f.created = &out
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byLogin[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeCoursesRepo struct {
	mu      sync.Mutex
	courses map[string]*models.Course
	content map[string]*models.CourseContent

	createErr error
	getErr    error
	saveErr   error
}

func newFakeCoursesRepo() *fakeCoursesRepo {
	return &fakeCoursesRepo{
		courses: map[string]*models.Course{},
		content: map[string]*models.CourseContent{},
	}
}

func (f *fakeCoursesRepo) Get(_ context.Context, id string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.courses[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeCoursesRepo) Create(_ context.Context, c *models.Course) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if existing, ok := f.courses[c.ID]; ok {
		return existing, nil
	}
	stored := *c
	f.courses[c.ID] = &stored
	return &stored, nil
}

func (f *fakeCoursesRepo) GetContent(_ context.Context, courseID string) (*models.CourseContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.content[courseID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeCoursesRepo) SaveContent(_ context.Context, c *models.CourseContent) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	stored := *c
	if prev, ok := f.content[c.CourseID]; ok {
		stored.Version = prev.Version + 1
	} else {
		stored.Version = 1
	}
	f.content[c.CourseID] = &stored
	return stored.Version, nil
}

type fakeMediaRepo struct {
	items     map[string]models.Media
	upsertErr error
}

func (f *fakeMediaRepo) Upsert(_ context.Context, m *models.Media) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.items == nil {
		f.items = map[string]models.Media{}
	}
	f.items[m.Key] = *m
	return nil
}

func (f *fakeMediaRepo) Get(_ context.Context, key string) (*models.Media, error) {
	m, ok := f.items[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &m, nil
}

func (f *fakeMediaRepo) ListByCourse(_ context.Context, courseID string) ([]models.Media, error) {
	var out []models.Media
	for _, m := range f.items {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeCoursesRepo
	m *fakeMediaRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: &fakeUsersRepo{}, c: newFakeCoursesRepo(), m: &fakeMediaRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Courses(dbx.DBTX) courses.Repository         { return m.c }
func (m *fakeRepoManager) Media(dbx.DBTX) media.Repository             { return m.m }
