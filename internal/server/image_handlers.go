package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/agenthands/storyweave/internal/images"
	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for part headers and boundaries around a
// file of the maximum size.
const multipartOverhead = 1 << 20

func (s *Server) UploadImage(c *gin.Context) {
	limit := s.cfg.Storage.MaxUploadBytes + multipartOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, fmt.Errorf("%w: request exceeds limit of %d bytes", images.ErrInvalidImage, s.cfg.Storage.MaxUploadBytes))
		return
	}
	if err != nil {
		respondError(c, fmt.Errorf("%w: multipart field 'file' is required", errBadRequest))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer f.Close()

	res, err := s.images.Upload(c.Request.Context(), images.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) DeleteImage(c *gin.Context) {
	filename := c.Param("filename")
	if err := s.images.Delete(c.Request.Context(), filename); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully", "filename": filename})
}
