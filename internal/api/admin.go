package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/backend/internal/cache"
	"github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/service"
	"github.com/yatube/backend/internal/types"
)

// AdminHandler holds the staff-only maintenance actions.
type AdminHandler struct {
	pages  cache.Cache
	groups service.IGroupService
}

func NewAdminHandler(pages cache.Cache, groups service.IGroupService) *AdminHandler {
	return &AdminHandler{pages: pages, groups: groups}
}

// ClearCache drops every cached page.
func (h *AdminHandler) ClearCache(c *gin.Context) {
	if err := h.pages.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	logger.Info("page cache cleared", zap.String("by", middleware.CurrentUsername(c)))
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *AdminHandler) CreateGroup(c *gin.Context) {
	var req types.GroupRequest
	if !bind(c, &req) {
		return
	}
	group, err := h.groups.CreateGroup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGroupView(group))
}
