package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CourseRepository manages lazily created course rows.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Upsert returns the id of the course with the given natural key, inserting
// it first when absent. A unique constraint on (name, university_id) plus a
// conflict-handling insert makes this safe under concurrent identical
// uploads; the no-op DO UPDATE lets RETURNING yield the surviving row's id.
func (r *CourseRepository) Upsert(ctx context.Context, name string, code *string, universityID string) (string, error) {
	const query = `INSERT INTO courses (id, name, code, university_id)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (name, university_id) DO UPDATE SET name = EXCLUDED.name
	RETURNING id`
	var id string
	if err := r.db.GetContext(ctx, &id, query, uuid.NewString(), name, code, universityID); err != nil {
		return "", fmt.Errorf("upsert course: %w", err)
	}
	return id, nil
}

// LecturerRepository manages lazily created lecturer rows.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository constructs the repository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// Upsert mirrors CourseRepository.Upsert for the (name, university_id) key.
func (r *LecturerRepository) Upsert(ctx context.Context, name, universityID string) (string, error) {
	const query = `INSERT INTO lecturers (id, name, university_id)
	VALUES ($1, $2, $3)
	ON CONFLICT (name, university_id) DO UPDATE SET name = EXCLUDED.name
	RETURNING id`
	var id string
	if err := r.db.GetContext(ctx, &id, query, uuid.NewString(), name, universityID); err != nil {
		return "", fmt.Errorf("upsert lecturer: %w", err)
	}
	return id, nil
}
