package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnudocs/hub-api/internal/dto"
	"github.com/vnudocs/hub-api/internal/models"
	"github.com/vnudocs/hub-api/internal/repository"
	appErrors "github.com/vnudocs/hub-api/pkg/errors"
	"github.com/vnudocs/hub-api/pkg/telegram"
)

type stubDocumentStore struct {
	createTreeFn   func(ctx context.Context, doc *models.Document, sections []repository.SectionTree) error
	listFn         func(ctx context.Context, filter models.DocumentFilter) ([]models.DocumentListRow, int, error)
	getApprovedFn  func(ctx context.Context, id string) (*models.DocumentListRow, error)
	listSectionsFn func(ctx context.Context, documentID string) ([]models.DocumentSection, error)
	listFilesFn    func(ctx context.Context, sectionIDs []string) ([]models.DocumentFile, error)
	getFileFn      func(ctx context.Context, fileID string) (*models.DocumentFile, error)
}

func (s *stubDocumentStore) CreateTree(ctx context.Context, doc *models.Document, sections []repository.SectionTree) error {
	return s.createTreeFn(ctx, doc, sections)
}

func (s *stubDocumentStore) List(ctx context.Context, filter models.DocumentFilter) ([]models.DocumentListRow, int, error) {
	return s.listFn(ctx, filter)
}

func (s *stubDocumentStore) GetApproved(ctx context.Context, id string) (*models.DocumentListRow, error) {
	return s.getApprovedFn(ctx, id)
}

func (s *stubDocumentStore) ListSections(ctx context.Context, documentID string) ([]models.DocumentSection, error) {
	return s.listSectionsFn(ctx, documentID)
}

func (s *stubDocumentStore) ListFiles(ctx context.Context, sectionIDs []string) ([]models.DocumentFile, error) {
	return s.listFilesFn(ctx, sectionIDs)
}

func (s *stubDocumentStore) GetFile(ctx context.Context, fileID string) (*models.DocumentFile, error) {
	return s.getFileFn(ctx, fileID)
}

type stubCourseUpserter struct {
	id  string
	err error
}

func (s *stubCourseUpserter) Upsert(ctx context.Context, name string, code *string, universityID string) (string, error) {
	return s.id, s.err
}

type stubLecturerUpserter struct {
	id     string
	err    error
	called bool
}

func (s *stubLecturerUpserter) Upsert(ctx context.Context, name, universityID string) (string, error) {
	s.called = true
	return s.id, s.err
}

type stubRelay struct {
	sendFn     func(ctx context.Context, filename string, content io.Reader) (string, error)
	downloadFn func(ctx context.Context, fileID string) (*telegram.FileStream, error)
	sent       []string
}

func (s *stubRelay) SendDocument(ctx context.Context, filename string, content io.Reader) (string, error) {
	s.sent = append(s.sent, filename)
	if s.sendFn != nil {
		return s.sendFn(ctx, filename, content)
	}
	return "tg-" + filename, nil
}

func (s *stubRelay) Download(ctx context.Context, fileID string) (*telegram.FileStream, error) {
	return s.downloadFn(ctx, fileID)
}

type stubResolver struct {
	result string
	seen   string
}

func (s *stubResolver) ResolveIdentifier(ctx context.Context, identifier string) string {
	s.seen = identifier
	return s.result
}

// uploadSection builds a SectionUpload whose file headers come from a real
// parsed multipart form, so header.Open works inside the service.
func uploadSection(t *testing.T, title string, files map[string]string) dto.SectionUpload {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for filename, mimeType := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="sections[0][files]"; filename=%q`, filename))
		header.Set("Content-Type", mimeType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("file content for " + filename))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return dto.SectionUpload{Title: title, Files: form.File["sections[0][files]"]}
}

func validUploadRequest() dto.UploadDocumentRequest {
	return dto.UploadDocumentRequest{
		Title:        "Giai tich 1 - Tong hop",
		CourseName:   "Giai tich 1",
		UniversityID: "fd2b1f8e-6a33-4ce0-9d4e-0d63f1f3a111",
		LecturerName: "Nguyen Van A",
	}
}

func TestDocumentServiceUploadRejectsMissingFields(t *testing.T) {
	svc := NewDocumentService(&stubDocumentStore{}, &stubCourseUpserter{}, &stubLecturerUpserter{}, &stubRelay{}, &stubResolver{}, nil, "/api", 0)

	req := validUploadRequest()
	req.Title = "  "
	_, err := svc.Upload(context.Background(), req, []dto.SectionUpload{uploadSection(t, "Notes", map[string]string{"a.pdf": "application/pdf"})}, "1.2.3.4")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.Upload(context.Background(), validUploadRequest(), nil, "1.2.3.4")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Upload(context.Background(), validUploadRequest(), []dto.SectionUpload{{Title: "Untitled section"}}, "1.2.3.4")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDocumentServiceUploadSkipsUnsupportedMIME(t *testing.T) {
	var captured []repository.SectionTree
	store := &stubDocumentStore{
		createTreeFn: func(ctx context.Context, doc *models.Document, sections []repository.SectionTree) error {
			doc.ID = "doc-1"
			captured = sections
			return nil
		},
	}
	relay := &stubRelay{}
	svc := NewDocumentService(store, &stubCourseUpserter{id: "course-1"}, &stubLecturerUpserter{id: "lect-1"}, relay, &stubResolver{}, nil, "/api", 0)

	section := uploadSection(t, "Materials", map[string]string{
		"slides.pdf": "application/pdf",
		"virus.exe":  "application/x-msdownload",
	})
	id, err := svc.Upload(context.Background(), validUploadRequest(), []dto.SectionUpload{section}, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)

	require.Len(t, captured, 1)
	require.Len(t, captured[0].Files, 1)
	assert.Equal(t, "slides.pdf", captured[0].Files[0].Name)
	assert.Equal(t, models.FileTypePDF, captured[0].Files[0].FileType)
	assert.Equal(t, []string{"slides.pdf"}, relay.sent)
}

func TestDocumentServiceUploadAbortsOnRelayError(t *testing.T) {
	store := &stubDocumentStore{
		createTreeFn: func(ctx context.Context, doc *models.Document, sections []repository.SectionTree) error {
			t.Fatal("CreateTree must not run when the relay fails")
			return nil
		},
	}
	relay := &stubRelay{
		sendFn: func(ctx context.Context, filename string, content io.Reader) (string, error) {
			return "", errors.New("telegram: 502 bad gateway")
		},
	}
	svc := NewDocumentService(store, &stubCourseUpserter{id: "course-1"}, &stubLecturerUpserter{}, relay, &stubResolver{}, nil, "/api", 0)

	section := uploadSection(t, "Materials", map[string]string{"slides.pdf": "application/pdf"})
	_, err := svc.Upload(context.Background(), validUploadRequest(), []dto.SectionUpload{section}, "1.2.3.4")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}

func TestDocumentServiceUploadSkipsLecturerWhenAbsent(t *testing.T) {
	store := &stubDocumentStore{
		createTreeFn: func(ctx context.Context, doc *models.Document, sections []repository.SectionTree) error {
			assert.Nil(t, doc.LecturerID)
			assert.Equal(t, models.DocumentStatusPending, doc.Status)
			return nil
		},
	}
	lecturers := &stubLecturerUpserter{id: "lect-1"}
	svc := NewDocumentService(store, &stubCourseUpserter{id: "course-1"}, lecturers, &stubRelay{}, &stubResolver{}, nil, "/api", 0)

	req := validUploadRequest()
	req.LecturerName = ""
	section := uploadSection(t, "Materials", map[string]string{"slides.pdf": "application/pdf"})
	_, err := svc.Upload(context.Background(), req, []dto.SectionUpload{section}, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, lecturers.called)
}

func TestDocumentServiceListResolvesIdentifierAndPaginates(t *testing.T) {
	var captured models.DocumentFilter
	store := &stubDocumentStore{
		listFn: func(ctx context.Context, filter models.DocumentFilter) ([]models.DocumentListRow, int, error) {
			captured = filter
			return []models.DocumentListRow{{ID: "doc-1", Title: "Calculus notes", CreatedAt: time.Now()}}, 25, nil
		},
	}
	resolver := &stubResolver{result: "uni-uuid-1"}
	svc := NewDocumentService(store, &stubCourseUpserter{}, &stubLecturerUpserter{}, &stubRelay{}, resolver, nil, "/api", 0)

	items, totalPages, currentPage, err := svc.List(context.Background(), 0, 500, "UET", "  calc ")
	require.NoError(t, err)
	assert.Equal(t, "UET", resolver.seen)
	assert.Equal(t, "uni-uuid-1", captured.UniversityID)
	assert.Equal(t, "calc", captured.Search)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, 10, captured.Limit)
	assert.Equal(t, 3, totalPages)
	assert.Equal(t, 1, currentPage)
	require.Len(t, items, 1)
	assert.NotNil(t, items[0].Sections)
}

func TestDocumentServiceGetDetailNotFound(t *testing.T) {
	store := &stubDocumentStore{
		getApprovedFn: func(ctx context.Context, id string) (*models.DocumentListRow, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewDocumentService(store, &stubCourseUpserter{}, &stubLecturerUpserter{}, &stubRelay{}, &stubResolver{}, nil, "/api", 0)

	_, err := svc.GetDetail(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Document not found", appErr.Message)
}

func TestDocumentServiceGetDetailGroupsFilesBySection(t *testing.T) {
	store := &stubDocumentStore{
		getApprovedFn: func(ctx context.Context, id string) (*models.DocumentListRow, error) {
			return &models.DocumentListRow{ID: id, Title: "Calculus notes", CourseName: "Giai tich 1", UniversityID: "uni-1"}, nil
		},
		listSectionsFn: func(ctx context.Context, documentID string) ([]models.DocumentSection, error) {
			return []models.DocumentSection{
				{ID: "sec-1", DocumentID: documentID, Title: "Lectures"},
				{ID: "sec-2", DocumentID: documentID, Title: "Exercises"},
			}, nil
		},
		listFilesFn: func(ctx context.Context, sectionIDs []string) ([]models.DocumentFile, error) {
			assert.Equal(t, []string{"sec-1", "sec-2"}, sectionIDs)
			return []models.DocumentFile{
				{ID: "file-1", SectionID: "sec-1", Name: "week1.pdf", FileType: models.FileTypePDF, SizeKB: 320},
			}, nil
		},
	}
	svc := NewDocumentService(store, &stubCourseUpserter{}, &stubLecturerUpserter{}, &stubRelay{}, &stubResolver{}, nil, "/api/", 0)

	detail, err := svc.GetDetail(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, detail.Sections, 2)
	require.Len(t, detail.Sections[0].Files, 1)
	assert.Equal(t, "/api/download/file/file-1", detail.Sections[0].Files[0].URL)
	assert.NotNil(t, detail.Sections[1].Files)
	assert.Empty(t, detail.Sections[1].Files)
}

func TestDocumentServiceDownloadFile(t *testing.T) {
	store := &stubDocumentStore{
		getFileFn: func(ctx context.Context, fileID string) (*models.DocumentFile, error) {
			return &models.DocumentFile{ID: fileID, Name: "week1.pdf", TelegramFileID: "tg-1"}, nil
		},
	}
	relay := &stubRelay{
		downloadFn: func(ctx context.Context, fileID string) (*telegram.FileStream, error) {
			assert.Equal(t, "tg-1", fileID)
			return &telegram.FileStream{
				Body:          io.NopCloser(strings.NewReader("%PDF-1.7")),
				ContentLength: 8,
				ContentType:   "application/pdf",
				FilePath:      "documents/file_1.pdf",
			}, nil
		},
	}
	svc := NewDocumentService(store, &stubCourseUpserter{}, &stubLecturerUpserter{}, relay, &stubResolver{}, nil, "/api", 0)

	download, err := svc.DownloadFile(context.Background(), "file-1")
	require.NoError(t, err)
	defer download.Body.Close() //nolint:errcheck
	assert.Equal(t, "week1.pdf", download.Filename)
	assert.Equal(t, int64(8), download.ContentLength)
}

func TestDocumentServiceDownloadFileNotFound(t *testing.T) {
	store := &stubDocumentStore{
		getFileFn: func(ctx context.Context, fileID string) (*models.DocumentFile, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewDocumentService(store, &stubCourseUpserter{}, &stubLecturerUpserter{}, &stubRelay{}, &stubResolver{}, nil, "/api", 0)

	_, err := svc.DownloadFile(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "File not found in database", appErr.Message)
}
