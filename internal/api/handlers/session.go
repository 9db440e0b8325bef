package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playsnooker/backend/internal/config"
	"github.com/playsnooker/backend/internal/game"
)

// CreateSession racks a new table and returns its token.
func CreateSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := game.Manager.CreateSession()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"session_id": s.ID,
			"token":      s.Token,
			"geometry":   s.Geometry(),
			"state":      s.State(),
			"ws_path":    "/api/v1/session/" + s.Token + "/ws",
		})
	}
}

// GetSessionState returns a one-off snapshot outside the WS stream.
func GetSessionState(c *gin.Context) {
	s, err := game.Manager.GetByToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	snapshot := s.Snapshot()
	snapshot["geometry"] = s.Geometry()
	c.JSON(http.StatusOK, snapshot)
}

// CloseSession ends a session immediately.
func CloseSession(c *gin.Context) {
	token := c.Param("token")
	if _, err := game.Manager.GetByToken(token); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	game.Manager.Close(token)
	c.JSON(http.StatusOK, gin.H{"closed": true})
}
