package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"github.com/vnudocs/hub-api/internal/dto"
	"github.com/vnudocs/hub-api/internal/models"
	"github.com/vnudocs/hub-api/internal/repository"
	appErrors "github.com/vnudocs/hub-api/pkg/errors"
	"github.com/vnudocs/hub-api/pkg/telegram"
)

const (
	defaultPageSize    = 10
	maxPageSize        = 100
	defaultMaxSections = 20
)

type documentStore interface {
	CreateTree(ctx context.Context, doc *models.Document, sections []repository.SectionTree) error
	List(ctx context.Context, filter models.DocumentFilter) ([]models.DocumentListRow, int, error)
	GetApproved(ctx context.Context, id string) (*models.DocumentListRow, error)
	ListSections(ctx context.Context, documentID string) ([]models.DocumentSection, error)
	ListFiles(ctx context.Context, sectionIDs []string) ([]models.DocumentFile, error)
	GetFile(ctx context.Context, fileID string) (*models.DocumentFile, error)
}

type courseUpserter interface {
	Upsert(ctx context.Context, name string, code *string, universityID string) (string, error)
}

type lecturerUpserter interface {
	Upsert(ctx context.Context, name, universityID string) (string, error)
}

type fileRelay interface {
	SendDocument(ctx context.Context, filename string, content io.Reader) (string, error)
	Download(ctx context.Context, fileID string) (*telegram.FileStream, error)
}

type universityResolver interface {
	ResolveIdentifier(ctx context.Context, identifier string) string
}

// FileDownload bundles a relayed binary stream with the filename the client
// should save it under.
type FileDownload struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
	Filename      string
}

// DocumentService runs the upload pipeline and the public document reads.
type DocumentService struct {
	documents    documentStore
	courses      courseUpserter
	lecturers    lecturerUpserter
	relay        fileRelay
	universities universityResolver
	logger       *zap.Logger
	apiPrefix    string
	maxSections  int
}

// NewDocumentService constructs the service. maxSections caps how many
// sections one submission may carry; zero or negative applies the default.
func NewDocumentService(documents documentStore, courses courseUpserter, lecturers lecturerUpserter, relay fileRelay, universities universityResolver, logger *zap.Logger, apiPrefix string, maxSections int) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if apiPrefix == "" {
		apiPrefix = "/api"
	}
	if maxSections <= 0 {
		maxSections = defaultMaxSections
	}
	return &DocumentService{
		documents:    documents,
		courses:      courses,
		lecturers:    lecturers,
		relay:        relay,
		universities: universities,
		logger:       logger,
		apiPrefix:    strings.TrimRight(apiPrefix, "/"),
		maxSections:  maxSections,
	}
}

// Upload validates the submission, resolves its relational parents, relays
// every recognized file to Telegram, and persists the document tree in one
// transaction. Files with an unsupported MIME type are skipped silently.
//
// All relay calls happen before the first database write, so a relay failure
// leaves no partial document behind. Blobs already relayed when a later step
// fails stay orphaned on the channel, which is acceptable: without a file
// row their handles are unreachable.
func (s *DocumentService) Upload(ctx context.Context, req dto.UploadDocumentRequest, sections []dto.SectionUpload, uploaderIP string) (string, error) {
	if err := validateUpload(req, sections); err != nil {
		return "", err
	}
	if len(sections) > s.maxSections {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("A document may carry at most %d sections.", s.maxSections))
	}

	courseID, err := s.courses.Upsert(ctx, strings.TrimSpace(req.CourseName), optional(req.CourseCode), req.UniversityID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to create course")
	}

	var lecturerID *string
	if name := strings.TrimSpace(req.LecturerName); name != "" {
		id, err := s.lecturers.Upsert(ctx, name, req.UniversityID)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to create lecturer")
		}
		lecturerID = &id
	}

	tree := make([]repository.SectionTree, 0, len(sections))
	for _, section := range sections {
		node := repository.SectionTree{Title: strings.TrimSpace(section.Title)}
		for _, header := range section.Files {
			fileType, ok := models.FileTypeFromMIME(header.Header.Get("Content-Type"))
			if !ok {
				s.logger.Debug("skipping file with unsupported mime type",
					zap.String("filename", header.Filename),
					zap.String("mime_type", header.Header.Get("Content-Type")))
				continue
			}
			fileID, err := s.relayFile(ctx, header)
			if err != nil {
				return "", err
			}
			node.Files = append(node.Files, models.DocumentFile{
				Name:           header.Filename,
				FileType:       fileType,
				SizeKB:         int(math.Round(float64(header.Size) / 1024)),
				TelegramFileID: fileID,
			})
		}
		tree = append(tree, node)
	}

	doc := &models.Document{
		Title:       strings.TrimSpace(req.Title),
		Description: optional(req.Description),
		CourseID:    courseID,
		LecturerID:  lecturerID,
		UploaderIP:  uploaderIP,
		Status:      models.DocumentStatusPending,
	}
	if err := s.documents.CreateTree(ctx, doc, tree); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to create document record")
	}

	s.logger.Info("document uploaded",
		zap.String("document_id", doc.ID),
		zap.Int("sections", len(tree)),
		zap.String("uploader_ip", uploaderIP))
	return doc.ID, nil
}

// List returns one page of approved documents plus the total page count.
// The university identifier may be a UUID or an abbreviation; an unresolved
// abbreviation degrades to an unfiltered listing.
func (s *DocumentService) List(ctx context.Context, page, limit int, universityIdentifier, searchTerm string) ([]dto.DocumentListItem, int, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	filter := models.DocumentFilter{
		UniversityID: s.universities.ResolveIdentifier(ctx, universityIdentifier),
		Search:       strings.TrimSpace(searchTerm),
		Page:         page,
		Limit:        limit,
	}

	rows, total, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, 0, 0, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to list documents")
	}

	items := make([]dto.DocumentListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.DocumentListItem{
			ID:           row.ID,
			Title:        row.Title,
			Description:  row.Description,
			CreatedAt:    row.CreatedAt,
			CourseName:   row.CourseName,
			CourseCode:   row.CourseCode,
			LecturerName: row.LecturerName,
			UniversityID: row.UniversityID,
			Sections:     []dto.SectionGroup{},
		})
	}

	totalPages := (total + limit - 1) / limit
	return items, totalPages, page, nil
}

// GetDetail loads the full nested document. Unknown and unapproved ids both
// come back as not found.
func (s *DocumentService) GetDetail(ctx context.Context, id string) (*dto.DocumentDetail, error) {
	row, err := s.documents.GetApproved(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load document")
	}

	sections, err := s.documents.ListSections(ctx, row.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load sections")
	}

	sectionIDs := make([]string, 0, len(sections))
	for _, section := range sections {
		sectionIDs = append(sectionIDs, section.ID)
	}
	files, err := s.documents.ListFiles(ctx, sectionIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load files")
	}

	filesBySection := make(map[string][]dto.FileItem, len(sections))
	for _, file := range files {
		filesBySection[file.SectionID] = append(filesBySection[file.SectionID], dto.FileItem{
			ID:       file.ID,
			Name:     file.Name,
			URL:      fmt.Sprintf("%s/download/file/%s", s.apiPrefix, file.ID),
			FileType: string(file.FileType),
			Size:     file.SizeKB,
		})
	}

	detail := &dto.DocumentDetail{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		CreatedAt:    row.CreatedAt,
		CourseName:   row.CourseName,
		CourseCode:   row.CourseCode,
		LecturerName: row.LecturerName,
		UniversityID: row.UniversityID,
		Sections:     make([]dto.SectionGroup, 0, len(sections)),
	}
	for _, section := range sections {
		group := dto.SectionGroup{Title: section.Title, Files: filesBySection[section.ID]}
		if group.Files == nil {
			group.Files = []dto.FileItem{}
		}
		detail.Sections = append(detail.Sections, group)
	}
	return detail, nil
}

// DownloadFile resolves a stored file to a live Telegram stream.
func (s *DocumentService) DownloadFile(ctx context.Context, fileID string) (*FileDownload, error) {
	file, err := s.documents.GetFile(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "File not found in database")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load file record")
	}

	stream, err := s.relay.Download(ctx, file.TelegramFileID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Could not download file")
	}
	return &FileDownload{
		Body:          stream.Body,
		ContentLength: stream.ContentLength,
		ContentType:   stream.ContentType,
		Filename:      file.Name,
	}, nil
}

func (s *DocumentService) relayFile(ctx context.Context, header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file")
	}
	defer src.Close() //nolint:errcheck

	fileID, err := s.relay.SendDocument(ctx, header.Filename, src)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, err.Error())
	}
	return fileID, nil
}

func validateUpload(req dto.UploadDocumentRequest, sections []dto.SectionUpload) error {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.CourseName) == "" || strings.TrimSpace(req.UniversityID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "Missing required fields, or a section is missing a title or files.")
	}
	if len(sections) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "Missing required fields, or a section is missing a title or files.")
	}
	for _, section := range sections {
		if strings.TrimSpace(section.Title) == "" || len(section.Files) == 0 {
			return appErrors.Clone(appErrors.ErrValidation, "Missing required fields, or a section is missing a title or files.")
		}
	}
	return nil
}

func optional(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
