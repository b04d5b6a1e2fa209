package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vnudocs/hub-api/internal/dto"
)

// ReviewRepository reads lecturer reviews through the server-side
// get_reviews_by_lecturer function. Filtering and grouping happen entirely
// inside the database; rows pass through unchanged.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs the repository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// ListByLecturer invokes the stored procedure with optional filters. Empty
// strings are passed as NULL so the function applies no filter.
func (r *ReviewRepository) ListByLecturer(ctx context.Context, universityID, searchTerm string) ([]dto.LecturerReviews, error) {
	const query = `SELECT lecturer_id, lecturer_name, university_id, average_rating, review_count, reviews
	FROM get_reviews_by_lecturer($1, $2)`

	uniArg := sql.NullString{String: universityID, Valid: universityID != ""}
	searchArg := sql.NullString{String: searchTerm, Valid: searchTerm != ""}

	var rows []dto.LecturerReviews
	if err := r.db.SelectContext(ctx, &rows, query, uniArg, searchArg); err != nil {
		return nil, fmt.Errorf("list reviews by lecturer: %w", err)
	}
	return rows, nil
}
