package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vnudocs/hub-api/internal/models"
)

// SectionTree bundles a section title with the files that survived MIME
// classification, ready for insertion.
type SectionTree struct {
	Title string
	Files []models.DocumentFile
}

// DocumentRepository persists documents with their nested sections/files and
// serves the public read paths.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs the repository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// CreateTree inserts the document, its sections, and their files inside a
// single transaction. Either the whole tree lands or nothing does.
func (r *DocumentRepository) CreateTree(ctx context.Context, doc *models.Document, sections []SectionTree) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = models.DocumentStatusPending
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin document tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const docQuery = `INSERT INTO documents (id, title, description, course_id, lecturer_id, uploader_ip, status, created_at)
	VALUES (:id, :title, :description, :course_id, :lecturer_id, :uploader_ip, :status, :created_at)`
	if _, err := tx.NamedExecContext(ctx, docQuery, doc); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	const sectionQuery = `INSERT INTO document_sections (id, document_id, title) VALUES ($1, $2, $3)`
	const fileQuery = `INSERT INTO document_files (id, section_id, name, file_type, size_kb, telegram_file_id)
	VALUES ($1, $2, $3, $4, $5, $6)`

	for _, section := range sections {
		sectionID := uuid.NewString()
		if _, err := tx.ExecContext(ctx, sectionQuery, sectionID, doc.ID, section.Title); err != nil {
			return fmt.Errorf("insert section %q: %w", section.Title, err)
		}
		for _, file := range section.Files {
			fileID := file.ID
			if fileID == "" {
				fileID = uuid.NewString()
			}
			if _, err := tx.ExecContext(ctx, fileQuery, fileID, sectionID, file.Name, file.FileType, file.SizeKB, file.TelegramFileID); err != nil {
				return fmt.Errorf("insert file %q: %w", file.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit document tx: %w", err)
	}
	return nil
}

// List returns one page of approved documents with display fields, plus the
// total matching count.
func (r *DocumentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.DocumentListRow, int, error) {
	base := `FROM documents d
	JOIN courses c ON c.id = d.course_id
	LEFT JOIN lecturers l ON l.id = d.lecturer_id`
	args := []interface{}{models.DocumentStatusApproved}
	conditions := []string{"d.status = $1"}

	if filter.UniversityID != "" {
		args = append(args, filter.UniversityID)
		conditions = append(conditions, fmt.Sprintf("c.university_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(d.title ILIKE $%d OR d.description ILIKE $%d OR c.name ILIKE $%d OR l.name ILIKE $%d)", n, n, n, n))
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT d.id, d.title, d.description, d.created_at,
	c.name AS course_name, c.code AS course_code, l.name AS lecturer_name, c.university_id
	%s ORDER BY d.created_at DESC LIMIT %d OFFSET %d`, base, limit, offset)

	var rows []models.DocumentListRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}
	return rows, total, nil
}

// GetApproved loads one approved document with display fields. Unapproved
// and unknown ids both surface sql.ErrNoRows.
func (r *DocumentRepository) GetApproved(ctx context.Context, id string) (*models.DocumentListRow, error) {
	const query = `SELECT d.id, d.title, d.description, d.created_at,
	c.name AS course_name, c.code AS course_code, l.name AS lecturer_name, c.university_id
	FROM documents d
	JOIN courses c ON c.id = d.course_id
	LEFT JOIN lecturers l ON l.id = d.lecturer_id
	WHERE d.id = $1 AND d.status = $2`
	var row models.DocumentListRow
	if err := r.db.GetContext(ctx, &row, query, id, models.DocumentStatusApproved); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListSections returns the sections of a document in insertion order.
func (r *DocumentRepository) ListSections(ctx context.Context, documentID string) ([]models.DocumentSection, error) {
	const query = `SELECT id, document_id, title FROM document_sections WHERE document_id = $1 ORDER BY id`
	var sections []models.DocumentSection
	if err := r.db.SelectContext(ctx, &sections, query, documentID); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListFiles returns the files belonging to any of the given sections.
func (r *DocumentRepository) ListFiles(ctx context.Context, sectionIDs []string) ([]models.DocumentFile, error) {
	if len(sectionIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, section_id, name, file_type, size_kb, telegram_file_id
	FROM document_files WHERE section_id IN (?) ORDER BY id`, sectionIDs)
	if err != nil {
		return nil, fmt.Errorf("build files query: %w", err)
	}
	query = r.db.Rebind(query)
	var files []models.DocumentFile
	if err := r.db.SelectContext(ctx, &files, query, args...); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// GetFile loads a single stored file row for the download redirector.
func (r *DocumentRepository) GetFile(ctx context.Context, fileID string) (*models.DocumentFile, error) {
	const query = `SELECT id, section_id, name, file_type, size_kb, telegram_file_id
	FROM document_files WHERE id = $1`
	var file models.DocumentFile
	if err := r.db.GetContext(ctx, &file, query, fileID); err != nil {
		return nil, err
	}
	return &file, nil
}
