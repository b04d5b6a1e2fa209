package models

// Course belongs to exactly one university. Rows are created lazily during
// document upload via an idempotent upsert on (name, university_id).
type Course struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Code         *string `db:"code" json:"code,omitempty"`
	UniversityID string  `db:"university_id" json:"universityId"`
}

// Lecturer is created lazily the same way, keyed on (name, university_id).
type Lecturer struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	UniversityID string `db:"university_id" json:"universityId"`
}
