package server

import (
	"errors"
	"net/http"

	"github.com/agenthands/storyweave/internal/games"
	"github.com/agenthands/storyweave/internal/images"
	"github.com/agenthands/storyweave/internal/llm"
	"github.com/agenthands/storyweave/internal/story"
	"github.com/gin-gonic/gin"
)

const (
	kindValidation = "validation_error"
	kindNotFound   = "not_found"
	kindUpstream   = "upstream_error"
	kindInternal   = "internal_error"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

// respondError maps domain errors onto HTTP responses. Unknown errors are
// reported generically; their text stays in the logs.
func respondError(c *gin.Context, err error) {
	status, kind, detail := classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": kind, "detail": detail})
}

func classify(err error) (int, string, string) {
	var pe *llm.ProviderError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, llm.ErrUnsupportedProvider),
		errors.Is(err, story.ErrInvalidGraph),
		errors.Is(err, games.ErrInvalidGame),
		errors.Is(err, images.ErrInvalidImage):
		return http.StatusBadRequest, kindValidation, err.Error()
	case errors.Is(err, games.ErrGameNotFound),
		errors.Is(err, images.ErrImageNotFound):
		return http.StatusNotFound, kindNotFound, err.Error()
	case errors.As(err, &pe):
		return http.StatusInternalServerError, kindUpstream, err.Error()
	default:
		return http.StatusInternalServerError, kindInternal, "internal error"
	}
}
