package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/vnudocs/hub-api/pkg/errors"
)

// DocumentPage is the paginated contract the listing frontends consume.
type DocumentPage struct {
	Data        interface{} `json:"data"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
}

// JSON sends a success payload as-is. The legacy frontends expect bare
// arrays and objects rather than an envelope, so no wrapping happens here.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Page sends a paginated document listing.
func Page(c *gin.Context, data interface{}, totalPages, currentPage int) {
	JSON(c, http.StatusOK, DocumentPage{Data: data, TotalPages: totalPages, CurrentPage: currentPage})
}

// Error maps the error onto its HTTP status and emits the flat
// {"error": message} body every client of this API parses.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}
