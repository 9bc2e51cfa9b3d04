package api

import (
	"errors"
	"net/http"

	"FightSync/internal/model"
	"FightSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SourceAPI 通过接口提交的批次在 ingest_runs 中的来源名
const SourceAPI = "api"

type IngestHandler struct {
	ingestService *service.IngestService
	logger        *logrus.Logger
}

func NewIngestHandler(db *gorm.DB, logger *logrus.Logger) *IngestHandler {
	return &IngestHandler{
		ingestService: service.NewIngestService(db, logger),
		logger:        logger,
	}
}

// IngestBatch 批量入库，单条失败不影响整批，返回逐条结果
// POST /api/ingest  body: 记录 JSON 数组
func (h *IngestHandler) IngestBatch(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records, err := model.DecodeRecords(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := h.ingestService.IngestAll(c.Request.Context(), SourceAPI, records)
	c.JSON(http.StatusOK, report)
}

// CreateFight 单条记录入库
// POST /api/fights  body: 单条记录
func (h *IngestHandler) CreateFight(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fightID, err := h.ingestService.IngestRecord(c.Request.Context(), model.DecodeRawRecord(data))
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"fight_id": fightID})
	case errors.Is(err, model.ErrDuplicateFight):
		c.JSON(http.StatusConflict, gin.H{"fight_id": fightID, "error": err.Error()})
	case model.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error("CreateFight failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
