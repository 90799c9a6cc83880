package storage

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// GetObject streams a stored asset for a presigned download
// @Summary      Download a stored asset
// @Tags         storage
// @Produce      octet-stream
// @Param        key path string true "Storage key"
// @Param        expires query int true "Expiry timestamp"
// @Param        signature query string true "Request signature"
// @Success      200 {file} binary
// @Failure      403 {object} types.ErrorResponse "Invalid or expired signature"
// @Failure      404 {object} types.ErrorResponse "Object not found"
// @Router       /storage/{key} [get]
func GetObject(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")

		if err := deps.Presigner.Verify(http.MethodGet, key, c.Request.URL.Query()); err != nil {
			log.Printf("[WARN] Rejected presigned download for %s: %v", key, err)
			c.JSON(http.StatusForbidden, types.ErrorResponse{
				Status: types.StatusError,
				Error:  "Invalid or expired download URL",
			})
			return
		}

		reader, err := deps.Store.Open(c.Request.Context(), key)
		if err != nil {
			types.SendNotFound(c, "Object not found")
			return
		}
		defer reader.Close()

		c.Header("Content-Type", "application/octet-stream")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, reader); err != nil {
			log.Printf("[WARN] Streaming object %s: %v", key, err)
		}
	}
}
