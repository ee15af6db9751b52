package api

import (
	"github.com/davidarcila/TowerFlip/internal/service"
	"github.com/davidarcila/TowerFlip/internal/storage"
)

// RunHandler groups all run-related HTTP handlers.
type RunHandler struct {
	svc  *service.Service
	repo storage.Repository
}

// NewRunHandler creates a RunHandler over the run service and repository.
func NewRunHandler(svc *service.Service, repo storage.Repository) *RunHandler {
	return &RunHandler{svc: svc, repo: repo}
}
