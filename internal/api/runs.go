package api

import (
	"net/http"

	"github.com/davidarcila/TowerFlip/internal/constants"
	"github.com/davidarcila/TowerFlip/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FlipRequest is the body of a party flip.
type FlipRequest struct {
	Position int `json:"position"`
}

func sessionEmail(c *gin.Context) string {
	v, _ := c.Get("userEmail")
	email, _ := v.(string)
	return email
}

func runID(c *gin.Context) (string, bool) {
	id := c.Param("runID")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRunID})
		return "", false
	}
	return id, true
}

func (h *RunHandler) fail(c *gin.Context, err error) {
	switch err {
	case service.ErrRunNotFound:
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRunNotFound})
	case service.ErrNotYourRun:
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrRunNotYours})
	case service.ErrRunOver:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRunAlreadyOver})
	case service.ErrNotAdvancable:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRunNotAdvancable})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSaveRun})
	}
}

// CreateRun starts a new run for the session player.
func (h *RunHandler) CreateRun(c *gin.Context) {
	snap, err := h.svc.StartRun(c.Request.Context(), sessionEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStartRun})
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// GetRun returns the current run snapshot. The optional ?since= query trims
// the narrated log to events the client has not seen yet.
func (h *RunHandler) GetRun(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}
	since := 0
	if v := c.Query("since"); v != "" {
		parsePositive(v, &since)
	}
	snap, err := h.svc.GetSnapshot(id, sessionEmail(c), since)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// FlipCard submits a party flip. Rejected flips (wrong turn, matched or
// face-up position, two selections pending) are policy no-ops: the response
// carries the unchanged snapshot and accepted=false.
func (h *RunHandler) FlipCard(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}
	var req FlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	snap, accepted, err := h.svc.Flip(id, sessionEmail(c), req.Position)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": accepted, "run": snap})
}

// AdvanceFloor applies the external advance trigger from FLOOR_COMPLETE.
func (h *RunHandler) AdvanceFloor(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}
	snap, err := h.svc.Advance(id, sessionEmail(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// AbandonRun concedes the run.
func (h *RunHandler) AbandonRun(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}
	snap, err := h.svc.Abandon(id, sessionEmail(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
