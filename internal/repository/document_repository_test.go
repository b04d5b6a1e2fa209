package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/vnudocs/hub-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDocumentRepositoryCreateTree(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO document_sections")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO document_files")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO document_files")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	doc := &models.Document{
		Title:      "Midterm",
		CourseID:   "course-1",
		UploaderIP: "10.0.0.1",
	}
	sections := []SectionTree{{
		Title: "Exams",
		Files: []models.DocumentFile{
			{Name: "midterm.pdf", FileType: models.FileTypePDF, SizeKB: 120, TelegramFileID: "tg-1"},
			{Name: "final.pdf", FileType: models.FileTypePDF, SizeKB: 90, TelegramFileID: "tg-2"},
		},
	}}

	require.NoError(t, repo.CreateTree(context.Background(), doc, sections))
	require.NotEmpty(t, doc.ID)
	require.Equal(t, models.DocumentStatusPending, doc.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryCreateTreeRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO document_sections")).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	doc := &models.Document{Title: "Midterm", CourseID: "course-1"}
	err := repo.CreateTree(context.Background(), doc, []SectionTree{{Title: "Exams"}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryListFiltersAndCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "description", "created_at", "course_name", "course_code", "lecturer_name", "university_id"}).
		AddRow("doc-1", "Midterm", nil, time.Now(), "Calc I", nil, "Dr. Nam", "uni-1")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT d.id, d.title, d.description, d.created_at")).
		WithArgs(models.DocumentStatusApproved, "uni-1", "%calc%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(models.DocumentStatusApproved, "uni-1", "%calc%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))

	items, total, err := repo.List(context.Background(), models.DocumentFilter{
		UniversityID: "uni-1",
		Search:       "calc",
		Page:         2,
		Limit:        10,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "doc-1", items[0].ID)
	require.Equal(t, 15, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryGetFile(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "section_id", "name", "file_type", "size_kb", "telegram_file_id"}).
		AddRow("file-1", "sec-1", "midterm.pdf", "PDF", 120, "tg-1")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, section_id, name, file_type, size_kb, telegram_file_id")).
		WithArgs("file-1").
		WillReturnRows(rows)

	file, err := repo.GetFile(context.Background(), "file-1")
	require.NoError(t, err)
	require.Equal(t, "tg-1", file.TelegramFileID)
	require.Equal(t, models.FileTypePDF, file.FileType)
}
