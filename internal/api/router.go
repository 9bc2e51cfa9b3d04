package api

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewRouter 注册全部路由；pprof 方便调试和监测性能问题
func NewRouter(db *gorm.DB, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	pprof.Register(r)

	ingestHandler := NewIngestHandler(db, logger)
	r.POST("/api/ingest", ingestHandler.IngestBatch)
	r.POST("/api/fights", ingestHandler.CreateFight)

	eventHandler := NewEventHandler(db, logger)
	r.GET("/api/events", eventHandler.ListEvents)
	r.GET("/api/events/:id", eventHandler.GetEvent)

	return r
}
