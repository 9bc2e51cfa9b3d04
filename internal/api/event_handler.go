package api

import (
	"net/http"
	"strconv"

	"FightSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EventHandler 赛事查询接口
type EventHandler struct {
	queryService *service.EventQueryService
	logger       *logrus.Logger
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(db *gorm.DB, logger *logrus.Logger) *EventHandler {
	return &EventHandler{
		queryService: service.NewEventQueryService(db),
		logger:       logger,
	}
}

// ListEvents 赛事列表，按时间倒序
// GET /api/events?page=1&page_size=20
func (h *EventHandler) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.queryService.ListEvents(c.Request.Context(), page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListEvents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEvent 赛事详情（场馆、对决、选手）
// GET /api/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	result, err := h.queryService.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("GetEvent failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}
