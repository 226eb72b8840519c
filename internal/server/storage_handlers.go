package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) StorageHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.reporter.Health(c.Request.Context()))
}

// StorageCleanup defaults to a dry run over the configured age.
func (s *Server) StorageCleanup(c *gin.Context) {
	daysOld, err := strconv.Atoi(c.DefaultQuery("days_old", strconv.Itoa(s.cfg.Cleanup.DaysOld)))
	if err != nil || daysOld < 0 {
		respondError(c, fmt.Errorf("%w: days_old must be a non-negative integer", errBadRequest))
		return
	}
	dryRun, err := strconv.ParseBool(c.DefaultQuery("dry_run", "true"))
	if err != nil {
		respondError(c, fmt.Errorf("%w: dry_run must be a boolean", errBadRequest))
		return
	}

	res, err := s.reporter.Cleanup(c.Request.Context(), daysOld, dryRun)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
