package server

import (
	"fmt"
	"net/http"

	"github.com/agenthands/storyweave/internal/games"
	"github.com/gin-gonic/gin"
)

func (s *Server) SaveGame(c *gin.Context) {
	var in games.GameInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	res, err := s.games.Save(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"gameId":   res.Game.ID,
		"shareUrl": res.ShareURL,
	})
}

func (s *Server) GetGame(c *gin.Context) {
	game, err := s.games.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (s *Server) ListGames(c *gin.Context) {
	list, err := s.games.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": list, "count": len(list)})
}
