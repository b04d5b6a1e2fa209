package models

import "time"

// DocumentStatus gates visibility in public read paths.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
)

// FileType enumerates the supported stored-file kinds.
type FileType string

const (
	FileTypePDF  FileType = "PDF"
	FileTypeDOCX FileType = "DOCX"
	FileTypePPTX FileType = "PPTX"
	FileTypeZIP  FileType = "ZIP"
)

// FileTypeFromMIME classifies an upload by its MIME type. Files with an
// unrecognized type are dropped from the upload, not rejected.
func FileTypeFromMIME(mimeType string) (FileType, bool) {
	switch mimeType {
	case "application/pdf":
		return FileTypePDF, true
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FileTypeDOCX, true
	case "application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return FileTypePPTX, true
	case "application/zip", "application/x-zip-compressed":
		return FileTypeZIP, true
	default:
		return "", false
	}
}

// Document is the uploaded bundle. It starts out pending and only becomes
// listable once moderation flips it to approved outside this service.
type Document struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	CourseID    string         `db:"course_id" json:"courseId"`
	LecturerID  *string        `db:"lecturer_id" json:"lecturerId,omitempty"`
	UploaderIP  string         `db:"uploader_ip" json:"-"`
	Status      DocumentStatus `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}

// DocumentSection groups files under a document. Every section carries at
// least one file at upload time.
type DocumentSection struct {
	ID         string `db:"id" json:"id"`
	DocumentID string `db:"document_id" json:"documentId"`
	Title      string `db:"title" json:"title"`
}

// DocumentFile references a blob held by the file relay via its opaque
// telegram_file_id.
type DocumentFile struct {
	ID             string   `db:"id" json:"id"`
	SectionID      string   `db:"section_id" json:"sectionId"`
	Name           string   `db:"name" json:"name"`
	FileType       FileType `db:"file_type" json:"fileType"`
	SizeKB         int      `db:"size_kb" json:"sizeKb"`
	TelegramFileID string   `db:"telegram_file_id" json:"-"`
}

// DocumentListRow joins a document with its course/lecturer display fields
// for the listing query.
type DocumentListRow struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Description  *string   `db:"description"`
	CreatedAt    time.Time `db:"created_at"`
	CourseName   string    `db:"course_name"`
	CourseCode   *string   `db:"course_code"`
	LecturerName *string   `db:"lecturer_name"`
	UniversityID string    `db:"university_id"`
}

// DocumentFilter narrows the public listing.
type DocumentFilter struct {
	UniversityID string
	Search       string
	Page         int
	Limit        int
}
