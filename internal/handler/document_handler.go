package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/vnudocs/hub-api/internal/dto"
	"github.com/vnudocs/hub-api/internal/service"
	appErrors "github.com/vnudocs/hub-api/pkg/errors"
	"github.com/vnudocs/hub-api/pkg/response"
)

type documentService interface {
	Upload(ctx context.Context, req dto.UploadDocumentRequest, sections []dto.SectionUpload, uploaderIP string) (string, error)
	List(ctx context.Context, page, limit int, universityIdentifier, searchTerm string) ([]dto.DocumentListItem, int, int, error)
	GetDetail(ctx context.Context, id string) (*dto.DocumentDetail, error)
	DownloadFile(ctx context.Context, fileID string) (*service.FileDownload, error)
}

// DocumentHandler serves the document upload, listing, detail, and download
// endpoints.
type DocumentHandler struct {
	service documentService
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(svc documentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// List godoc
// @Summary List approved documents
// @Tags Documents
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Param universityId query string false "University UUID or abbreviation"
// @Param searchTerm query string false "Case-insensitive substring filter"
// @Success 200 {object} response.DocumentPage
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, totalPages, currentPage, err := h.service.List(
		c.Request.Context(),
		page,
		limit,
		strings.TrimSpace(c.Query("universityId")),
		c.Query("searchTerm"),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, items, totalPages, currentPage)
}

// Get godoc
// @Summary Get one approved document with nested sections and files
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentDetail
// @Failure 404 {object} map[string]string
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	detail, err := h.service.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Upload godoc
// @Summary Upload a document with bracket-indexed sections
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param courseName formData string true "Course name"
// @Param universityId formData string true "University UUID"
// @Param courseCode formData string false "Course code"
// @Param lecturerName formData string false "Lecturer name"
// @Param description formData string false "Description"
// @Success 201 {object} dto.UploadDocumentResponse
// @Failure 400 {object} map[string]string
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	var req dto.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Missing required fields, or a section is missing a title or files."))
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid multipart payload"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid multipart payload"))
		return
	}
	sections := dto.ParseSections(form)

	documentID, err := h.service.Upload(c.Request.Context(), req, sections, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.UploadDocumentResponse{
		Message:    "Upload successful, pending review.",
		DocumentID: documentID,
	})
}

// DownloadFile godoc
// @Summary Stream a stored document file
// @Tags Documents
// @Produce octet-stream
// @Param fileId path string true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /download/file/{fileId} [get]
func (h *DocumentHandler) DownloadFile(c *gin.Context) {
	download, err := h.service.DownloadFile(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.Body.Close() //nolint:errcheck

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.DataFromReader(http.StatusOK, download.ContentLength, download.ContentType, download.Body, nil)
}
