package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/vnudocs/hub-api/internal/dto"
	"github.com/vnudocs/hub-api/internal/models"
	appErrors "github.com/vnudocs/hub-api/pkg/errors"
)

type examStore interface {
	Create(ctx context.Context, exam *models.Exam) error
	List(ctx context.Context) ([]models.Exam, error)
	GetByID(ctx context.Context, id string) (*models.Exam, error)
}

// ExamService backs the original single-file exam sharing page.
type ExamService struct {
	repo   examStore
	relay  fileRelay
	logger *zap.Logger
}

// NewExamService constructs the service.
func NewExamService(repo examStore, relay fileRelay, logger *zap.Logger) *ExamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, relay: relay, logger: logger}
}

// List returns every exam, newest first.
func (s *ExamService) List(ctx context.Context) ([]models.Exam, error) {
	exams, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to list exams")
	}
	if exams == nil {
		exams = []models.Exam{}
	}
	return exams, nil
}

// Upload relays the exam file to Telegram and stores its metadata row.
func (s *ExamService) Upload(ctx context.Context, req dto.UploadExamRequest, filename string, content io.Reader) (*models.Exam, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Subject) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Missing required fields")
	}

	fileID, err := s.relay.SendDocument(ctx, filename, content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, err.Error())
	}

	exam := &models.Exam{
		Title:          strings.TrimSpace(req.Title),
		Subject:        strings.TrimSpace(req.Subject),
		Grade:          req.Grade,
		Year:           req.Year,
		TelegramFileID: fileID,
		Status:         "pending",
	}
	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to save exam metadata")
	}

	s.logger.Info("exam uploaded", zap.String("exam_id", exam.ID), zap.String("subject", exam.Subject))
	return exam, nil
}

// Download resolves the exam's stored handle and names the attachment from
// its subject and title plus the extension of the relayed file.
func (s *ExamService) Download(ctx context.Context, id string) (*FileDownload, error) {
	exam, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load exam record")
	}

	stream, err := s.relay.Download(ctx, exam.TelegramFileID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Could not download file")
	}

	filename := fmt.Sprintf("%s_%s%s",
		sanitizeFilename(exam.Subject),
		sanitizeFilename(exam.Title),
		path.Ext(stream.FilePath))
	return &FileDownload{
		Body:          stream.Body,
		ContentLength: stream.ContentLength,
		ContentType:   stream.ContentType,
		Filename:      filename,
	}, nil
}

// sanitizeFilename lowercases the input and replaces anything outside
// [a-z0-9.\- ] with an underscore.
func sanitizeFilename(raw string) string {
	raw = strings.ToLower(raw)
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
