package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vnudocs/hub-api/internal/models"
)

// ExamRepository persists the flat exam records of the legacy upload flow.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs the repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// Create stores a relayed exam file's metadata.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO exams (id, title, subject, grade, year, telegram_file_id, status, created_at)
	VALUES (:id, :title, :subject, :grade, :year, :telegram_file_id, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// List returns all exams newest first.
func (r *ExamRepository) List(ctx context.Context) ([]models.Exam, error) {
	const query = `SELECT id, title, subject, grade, year, telegram_file_id, status, created_at
	FROM exams ORDER BY created_at DESC`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// GetByID loads one exam row for the legacy download endpoint.
func (r *ExamRepository) GetByID(ctx context.Context, id string) (*models.Exam, error) {
	const query = `SELECT id, title, subject, grade, year, telegram_file_id, status, created_at
	FROM exams WHERE id = $1`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}
