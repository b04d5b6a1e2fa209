package dto

import "github.com/jmoiron/sqlx/types"

// LecturerReviews is one lecturer-grouped row produced by the
// get_reviews_by_lecturer stored procedure. The nested reviews payload is
// shaped server-side and passed through untouched.
type LecturerReviews struct {
	LecturerID    string         `db:"lecturer_id" json:"lecturerId"`
	LecturerName  string         `db:"lecturer_name" json:"lecturerName"`
	UniversityID  string         `db:"university_id" json:"universityId"`
	AverageRating float64        `db:"average_rating" json:"averageRating"`
	ReviewCount   int            `db:"review_count" json:"reviewCount"`
	Reviews       types.JSONText `db:"reviews" json:"reviews"`
}
