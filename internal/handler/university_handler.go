package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnudocs/hub-api/internal/models"
	"github.com/vnudocs/hub-api/pkg/response"
)

type universityService interface {
	List(ctx context.Context) ([]models.University, error)
}

// UniversityHandler serves university reference data.
type UniversityHandler struct {
	service universityService
}

// NewUniversityHandler constructs the handler.
func NewUniversityHandler(svc universityService) *UniversityHandler {
	return &UniversityHandler{service: svc}
}

// List godoc
// @Summary List universities ordered by name
// @Tags Universities
// @Produce json
// @Success 200 {array} models.University
// @Router /universities [get]
func (h *UniversityHandler) List(c *gin.Context) {
	universities, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if universities == nil {
		universities = []models.University{}
	}
	response.JSON(c, http.StatusOK, universities)
}
