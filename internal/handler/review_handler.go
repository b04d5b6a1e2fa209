package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnudocs/hub-api/internal/dto"
	"github.com/vnudocs/hub-api/pkg/response"
)

type reviewService interface {
	List(ctx context.Context, universityIdentifier, searchTerm string) ([]dto.LecturerReviews, error)
}

// ReviewHandler serves the lecturer-grouped review listing.
type ReviewHandler struct {
	service reviewService
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(svc reviewService) *ReviewHandler {
	return &ReviewHandler{service: svc}
}

// List godoc
// @Summary List reviews grouped by lecturer
// @Tags Reviews
// @Produce json
// @Param universityId query string false "University UUID or abbreviation"
// @Param searchTerm query string false "Search filter passed to the database"
// @Success 200 {array} dto.LecturerReviews
// @Router /reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	rows, err := h.service.List(
		c.Request.Context(),
		strings.TrimSpace(c.Query("universityId")),
		strings.TrimSpace(c.Query("searchTerm")),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}
