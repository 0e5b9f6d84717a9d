package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/foxseedlab/nikki/internal/journal"
	"github.com/foxseedlab/nikki/internal/session"
	"github.com/foxseedlab/nikki/internal/webhook"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	manager *session.Manager
	video   webhook.VideoSummarizer
	now     func() time.Time
}

func (h *Handler) Ping(c *gin.Context) {
	ok(c, gin.H{"pong": true})
}

func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.manager.UserConfig(c.Request.Context())
	if err != nil {
		slog.Error("failed to load user config", "error", err)
		fail(c, http.StatusInternalServerError, 50001, "failed to load config")
		return
	}
	if cfg == nil {
		fail(c, http.StatusNotFound, 40401, "config not set up")
		return
	}
	ok(c, cfg)
}

func (h *Handler) PutConfig(c *gin.Context) {
	var req journal.UserConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 40001, "invalid json body")
		return
	}
	if err := h.manager.SaveUserConfig(c.Request.Context(), req); err != nil {
		var verrs journal.ValidationErrors
		if errors.As(err, &verrs) {
			failWithData(c, http.StatusBadRequest, 40002, "invalid config", verrs)
			return
		}
		slog.Error("failed to save user config", "error", err)
		fail(c, http.StatusInternalServerError, 50002, "failed to save config")
		return
	}
	ok(c, req)
}

type logView struct {
	Date     string            `json:"date"`
	Messages []journal.Message `json:"messages"`
}

func (h *Handler) TodayLog(c *gin.Context) {
	date, msgs, err := h.manager.TodayLog(c.Request.Context())
	if err != nil {
		slog.Error("failed to load today log", "error", err)
		fail(c, http.StatusInternalServerError, 50003, "failed to load log")
		return
	}
	ok(c, logView{Date: date, Messages: msgs})
}

func (h *Handler) GetLog(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(journal.DateLayout, date); err != nil {
		fail(c, http.StatusBadRequest, 40003, "date must be YYYY-MM-DD")
		return
	}
	msgs, err := h.manager.Log(c.Request.Context(), date)
	if err != nil {
		slog.Error("failed to load log", "error", err, "date", date)
		fail(c, http.StatusInternalServerError, 50003, "failed to load log")
		return
	}
	ok(c, logView{Date: date, Messages: msgs})
}

func (h *Handler) ExportLogs(c *gin.Context) {
	logs, err := h.manager.ExportLogs(c.Request.Context())
	if err != nil {
		slog.Error("failed to export logs", "error", err)
		fail(c, http.StatusInternalServerError, 50004, "failed to export logs")
		return
	}
	ok(c, logs)
}

type sendMessageReq struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 40001, "text is required")
		return
	}
	date, msg, err := h.manager.SendMessage(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, session.ErrEmptyMessage) {
			fail(c, http.StatusBadRequest, 40004, "text is empty")
			return
		}
		slog.Error("failed to append message", "error", err)
		fail(c, http.StatusInternalServerError, 50005, "failed to save message")
		return
	}
	ok(c, gin.H{"date": date, "message": msg})
}

func (h *Handler) RequestSummary(c *gin.Context) {
	msg, err := h.manager.RequestSummary(c.Request.Context())
	switch {
	case err == nil:
		ok(c, msg)
	case errors.Is(err, session.ErrUserConfigMissing):
		fail(c, http.StatusPreconditionFailed, 41201, "config not set up")
	case errors.Is(err, session.ErrNothingToSummarize):
		fail(c, http.StatusUnprocessableEntity, 42201, "no messages to summarize")
	case errors.Is(err, session.ErrSummaryInProgress):
		fail(c, http.StatusConflict, 40901, "summary already in progress")
	case errors.Is(err, webhook.ErrNotConfigured):
		failWithData(c, http.StatusServiceUnavailable, 50301, "summary webhook not configured", msg)
	default:
		failWithData(c, http.StatusBadGateway, 50201, err.Error(), msg)
	}
}

type videoReq struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
}

func (h *Handler) bindVideo(c *gin.Context) (webhook.VideoInfo, bool) {
	var req videoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 40001, "url is required")
		return webhook.VideoInfo{}, false
	}
	info := webhook.ParseVideoInfo(req.URL, req.Title)
	if info.VideoID == "" {
		fail(c, http.StatusBadRequest, 40005, "not a video url")
		return webhook.VideoInfo{}, false
	}
	return info, true
}

func (h *Handler) VideoSummary(c *gin.Context) {
	info, valid := h.bindVideo(c)
	if !valid {
		return
	}
	summary, err := h.video.Summarize(c.Request.Context(), info)
	if err != nil {
		h.videoFailure(c, err, info)
		return
	}
	ok(c, gin.H{"title": summary.Title, "summary": summary.Summary})
}

func (h *Handler) VideoTranscript(c *gin.Context) {
	info, valid := h.bindVideo(c)
	if !valid {
		return
	}
	tr, err := h.video.Transcript(c.Request.Context(), info)
	if err != nil {
		h.videoFailure(c, err, info)
		return
	}
	filename := webhook.TranscriptFilename(info.Title, tr, h.now())
	switch {
	case tr.File != nil && tr.File.FileURL != "":
		c.Redirect(http.StatusFound, tr.File.FileURL)
	case tr.Content != nil:
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(*tr.Content))
	default:
		fail(c, http.StatusBadGateway, 50203, "NO_FILE_CONTENT")
	}
}

func (h *Handler) videoFailure(c *gin.Context, err error, info webhook.VideoInfo) {
	if errors.Is(err, webhook.ErrNotConfigured) {
		fail(c, http.StatusServiceUnavailable, 50302, "video webhook not configured")
		return
	}
	slog.Error("video webhook failed", "error", err, "video_id", info.VideoID)
	fail(c, http.StatusBadGateway, 50202, err.Error())
}
