package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/vnudocs/hub-api/internal/dto"
	appErrors "github.com/vnudocs/hub-api/pkg/errors"
)

type reviewStore interface {
	ListByLecturer(ctx context.Context, universityID, searchTerm string) ([]dto.LecturerReviews, error)
}

// ReviewService exposes the lecturer-grouped review listing. There is no
// write path; reviews enter the database outside this service.
type ReviewService struct {
	repo         reviewStore
	universities universityResolver
	logger       *zap.Logger
}

// NewReviewService constructs the service.
func NewReviewService(repo reviewStore, universities universityResolver, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{repo: repo, universities: universities, logger: logger}
}

// List applies the shared identifier-resolution rule and delegates the rest
// to the stored procedure.
func (s *ReviewService) List(ctx context.Context, universityIdentifier, searchTerm string) ([]dto.LecturerReviews, error) {
	universityID := s.universities.ResolveIdentifier(ctx, universityIdentifier)
	rows, err := s.repo.ListByLecturer(ctx, universityID, searchTerm)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to list reviews")
	}
	if rows == nil {
		rows = []dto.LecturerReviews{}
	}
	return rows, nil
}
