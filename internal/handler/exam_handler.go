package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnudocs/hub-api/internal/dto"
	"github.com/vnudocs/hub-api/internal/models"
	"github.com/vnudocs/hub-api/internal/service"
	appErrors "github.com/vnudocs/hub-api/pkg/errors"
	"github.com/vnudocs/hub-api/pkg/response"
)

type examService interface {
	List(ctx context.Context) ([]models.Exam, error)
	Upload(ctx context.Context, req dto.UploadExamRequest, filename string, content io.Reader) (*models.Exam, error)
	Download(ctx context.Context, id string) (*service.FileDownload, error)
}

// ExamHandler serves the legacy exam-sharing endpoints.
type ExamHandler struct {
	service examService
}

// NewExamHandler constructs the handler.
func NewExamHandler(svc examService) *ExamHandler {
	return &ExamHandler{service: svc}
}

// List godoc
// @Summary List exams, newest first
// @Tags Exams
// @Produce json
// @Success 200 {array} models.Exam
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams)
}

// Upload godoc
// @Summary Upload one exam file
// @Tags Exams
// @Accept multipart/form-data
// @Produce json
// @Param document formData file true "Exam file"
// @Param title formData string true "Title"
// @Param subject formData string true "Subject"
// @Param grade formData int true "Grade"
// @Param year formData int true "Year"
// @Success 201 {object} dto.UploadExamResponse
// @Failure 400 {object} map[string]string
// @Router /upload [post]
func (h *ExamHandler) Upload(c *gin.Context) {
	var req dto.UploadExamRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Missing required fields"))
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "A file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
		return
	}
	defer src.Close() //nolint:errcheck

	exam, err := h.service.Upload(c.Request.Context(), req, fileHeader.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.UploadExamResponse{Message: "Upload successful", ExamData: *exam})
}

// Download godoc
// @Summary Stream an exam file
// @Tags Exams
// @Produce octet-stream
// @Param id path string true "Exam ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /download/{id} [get]
func (h *ExamHandler) Download(c *gin.Context) {
	download, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.Body.Close() //nolint:errcheck

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.DataFromReader(http.StatusOK, download.ContentLength, download.ContentType, download.Body, nil)
}
