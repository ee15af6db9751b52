package api

import (
	"net/http"
	"strconv"

	"github.com/davidarcila/TowerFlip/internal/constants"
	"github.com/davidarcila/TowerFlip/internal/service"
	"github.com/gin-gonic/gin"
)

// parsePositive overwrites out only when s parses to a non-negative int.
func parsePositive(s string, out *int) {
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		*out = v
	}
}

// GetProgress returns the session player's persisted progress snapshot.
func (h *RunHandler) GetProgress(c *gin.Context) {
	snap, err := h.svc.LoadProgress(sessionEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchProgress})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SaveProgress stores the client-owned parts of the progress snapshot.
func (h *RunHandler) SaveProgress(c *gin.Context) {
	var snap service.ProgressSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := h.svc.SaveProgress(sessionEmail(c), &snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSaveProgress})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Progress saved"})
}

// ListLeaderboard returns the public top-players board ordered by highest
// floor, then wins.
func (h *RunHandler) ListLeaderboard(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		parsePositive(v, &limit)
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	players, err := h.repo.GetTopPlayers(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	type row struct {
		PlayerName   string `json:"player_name"`
		HighestFloor int    `json:"highest_floor"`
		Wins         int    `json:"wins"`
		RunsPlayed   int    `json:"runs_played"`
	}
	out := make([]row, 0, len(players))
	for _, p := range players {
		name := p.PlayerName
		if name == "" {
			name = "Anonymous climber"
		}
		out = append(out, row{PlayerName: name, HighestFloor: p.HighestFloor, Wins: p.Wins, RunsPlayed: p.RunsPlayed})
	}
	c.JSON(http.StatusOK, out)
}
