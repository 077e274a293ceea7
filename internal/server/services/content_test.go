package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/logging"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
)

func sampleSnapshot(courseID string) course.Snapshot {
	return course.Snapshot{
		Sections: []course.Section{{ID: "s1", Title: "Intro", Children: []string{"text-1", "image-1"}}},
		Elements: []course.Element{
			{ID: "text-1", Type: course.ElementText, Content: `<p onclick="x()">Hello<script>alert(1)</script></p>`},
			{ID: "image-1", Type: course.ElementImage, Content: "courses/" + courseID + "/image-1/abc-cat.png"},
		},
	}
}

func TestFetch_UnknownCourseIsEmpty(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewContentService(db, newFakeRepoManager(), logging.Nop())

	c, err := s.Fetch(context.Background(), "u1", "course-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.Version)
	assert.NotNil(t, c.Snapshot.Sections)
	assert.Empty(t, c.Snapshot.Sections)
}

func TestFetch_RequiresCourseID(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewContentService(db, newFakeRepoManager(), nil)

	_, err := s.Fetch(context.Background(), "u1", " ")
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
}

func TestCommit_SanitizesAndVersions(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := NewContentService(db, rm, nil)

	stored, err := s.Commit(context.Background(), "u1", "course-1", sampleSnapshot("course-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)

	stored, err = s.Commit(context.Background(), "u1", "course-1", sampleSnapshot("course-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
	assert.True(t, stored.Snapshot.Equal(rm.c.content["course-1"].Snapshot), "returns what was stored")
	storedText, _ := stored.Snapshot.Element("text-1")
	assert.NotContains(t, storedText.Content, "script")
	require.NoError(t, mock.ExpectationsWereMet())

	got, err := s.Fetch(context.Background(), "u1", "course-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, "u1", got.UpdatedBy)

	text, ok := got.Snapshot.Element("text-1")
	require.True(t, ok)
	assert.NotContains(t, text.Content, "script")
	assert.NotContains(t, text.Content, "onclick")
	assert.Contains(t, text.Content, "Hello")

	img, _ := got.Snapshot.Element("image-1")
	assert.Equal(t, "courses/course-1/image-1/abc-cat.png", img.Content, "media keys are not sanitized")
	assert.Equal(t, "u1", rm.c.courses["course-1"].OwnerID)
}

func TestCommit_DoesNotMutateInput(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	s := NewContentService(db, newFakeRepoManager(), nil)

	snap := sampleSnapshot("course-1")
	before := snap.Clone()
	_, err := s.Commit(context.Background(), "u1", "course-1", snap)
	require.NoError(t, err)
	assert.True(t, before.Equal(snap))
}

func TestCommit_RejectsInvalidSnapshot(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewContentService(db, newFakeRepoManager(), nil)

	bad := course.Snapshot{
		Sections: []course.Section{{ID: "s1", Children: []string{"missing"}}},
	}
	_, err := s.Commit(context.Background(), "u1", "course-1", bad)
	require.ErrorIs(t, err, common.ErrorInvalidSnapshot)
	require.ErrorIs(t, err, course.ErrDanglingChild)
}

func TestCommit_RejectsForeignMediaKey(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewContentService(db, newFakeRepoManager(), nil)

	_, err := s.Commit(context.Background(), "u1", "course-1", sampleSnapshot("course-2"))
	require.ErrorIs(t, err, common.ErrorInvalidSnapshot)
}

func TestCommit_ForeignCourseIsForbidden(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.c.courses["course-1"] = &models.Course{ID: "course-1", OwnerID: "someone-else"}
	s := NewContentService(db, rm, nil)

	_, err := s.Commit(context.Background(), "u1", "course-1", sampleSnapshot("course-1"))
	require.ErrorIs(t, err, common.ErrorForbidden)
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = s.Fetch(context.Background(), "u1", "course-1")
	require.ErrorIs(t, err, common.ErrorForbidden)
}

func TestCommit_SaveErrorRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.c.saveErr = errBoom{}
	s := NewContentService(db, rm, nil)

	_, err := s.Commit(context.Background(), "u1", "course-1", sampleSnapshot("course-1"))
	require.ErrorContains(t, err, "error saving content")
	require.NoError(t, mock.ExpectationsWereMet())
}
