package dto

import "github.com/vnudocs/hub-api/internal/models"

// UploadExamRequest carries the legacy exam-upload form fields. The file
// itself arrives under the "document" multipart key.
type UploadExamRequest struct {
	Title   string `form:"title" binding:"required"`
	Subject string `form:"subject" binding:"required"`
	Grade   int    `form:"grade" binding:"required"`
	Year    int    `form:"year" binding:"required"`
}

// UploadExamResponse mirrors the original worker's success payload.
type UploadExamResponse struct {
	Message  string      `json:"message"`
	ExamData models.Exam `json:"examData"`
}
