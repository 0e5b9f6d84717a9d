package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/foxseedlab/nikki/internal/session"
	"github.com/foxseedlab/nikki/internal/webhook"
	"github.com/gin-gonic/gin"
)

func NewRouter(manager *session.Manager, video webhook.VideoSummarizer) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(requestLogger(), gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := &Handler{manager: manager, video: video, now: time.Now}

	r.GET("/ping", h.Ping)

	r.GET("/config", h.GetConfig)
	r.PUT("/config", h.PutConfig)

	r.GET("/logs", h.ExportLogs)
	r.GET("/logs/today", h.TodayLog)
	r.GET("/logs/:date", h.GetLog)
	r.POST("/messages", h.SendMessage)
	r.POST("/summary", h.RequestSummary)

	r.POST("/video/summary", h.VideoSummary)
	r.POST("/video/transcript", h.VideoTranscript)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds())
	}
}
