package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vnudocs/hub-api/internal/models"
)

// UniversityRepository reads the immutable university reference table.
type UniversityRepository struct {
	db *sqlx.DB
}

// NewUniversityRepository constructs the repository.
func NewUniversityRepository(db *sqlx.DB) *UniversityRepository {
	return &UniversityRepository{db: db}
}

// List returns all universities ordered by name.
func (r *UniversityRepository) List(ctx context.Context) ([]models.University, error) {
	const query = `SELECT id, name, abbreviation FROM universities ORDER BY name ASC`
	var universities []models.University
	if err := r.db.SelectContext(ctx, &universities, query); err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	return universities, nil
}

// FindByAbbreviation resolves an abbreviation like "UET" to its row.
// Returns sql.ErrNoRows via the driver when no match exists.
func (r *UniversityRepository) FindByAbbreviation(ctx context.Context, abbreviation string) (*models.University, error) {
	const query = `SELECT id, name, abbreviation FROM universities WHERE abbreviation = $1`
	var university models.University
	if err := r.db.GetContext(ctx, &university, query, abbreviation); err != nil {
		return nil, err
	}
	return &university, nil
}
