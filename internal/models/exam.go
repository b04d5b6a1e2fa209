package models

import "time"

// Exam is the flat entity behind the original exam-sharing page. It predates
// the sectioned document model and lives in its own table.
type Exam struct {
	ID             string    `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Subject        string    `db:"subject" json:"subject"`
	Grade          int       `db:"grade" json:"grade"`
	Year           int       `db:"year" json:"year"`
	TelegramFileID string    `db:"telegram_file_id" json:"-"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
