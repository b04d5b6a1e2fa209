package models

import "time"

// Review and Comment exist in the type system for the reviews read path.
// Nothing in this service writes them; listing goes through a server-side
// stored procedure that aggregates per lecturer.
type Review struct {
	ID         string    `db:"id" json:"id"`
	LecturerID string    `db:"lecturer_id" json:"lecturerId"`
	CourseName string    `db:"course_name" json:"courseName"`
	Rating     int       `db:"rating" json:"rating"`
	Content    string    `db:"content" json:"content"`
	Date       time.Time `db:"date" json:"date"`
}

type Comment struct {
	ID       string `db:"id" json:"id"`
	ReviewID string `db:"review_id" json:"reviewId"`
	Author   string `db:"author" json:"author"`
	Content  string `db:"content" json:"content"`
}
