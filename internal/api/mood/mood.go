package mood

import (
	"cryptomood-backend/internal/errors"
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type MoodHandler struct {
	moodService     *service.MoodService
	analysisService *service.AnalysisService
}

func NewMoodHandler(moodService *service.MoodService, analysisService *service.AnalysisService) *MoodHandler {
	return &MoodHandler{
		moodService:     moodService,
		analysisService: analysisService,
	}
}

type createMoodRequest struct {
	MoodScore       int      `json:"mood_score" binding:"required,min=1,max=10"`
	Emotions        []string `json:"emotions" binding:"required,min=1"`
	MarketCondition string   `json:"market_condition" binding:"required,oneof=bullish bearish neutral volatile"`
	Notes           string   `json:"notes" binding:"max=500"`
}

// CreateMood 记录一条心情
func (h *MoodHandler) CreateMood(c *gin.Context) {
	var req createMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	entry := &model.MoodEntry{
		UserID:          c.GetInt("user_id"),
		MoodScore:       req.MoodScore,
		Emotions:        req.Emotions,
		MarketCondition: req.MarketCondition,
		Notes:           req.Notes,
	}

	if err := h.moodService.CreateEntry(entry); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code": 201,
		"data": entry,
	})
}

// ListMoods 获取当前用户最近的心情记录
func (h *MoodHandler) ListMoods(c *gin.Context) {
	entries, err := h.moodService.ListEntries(c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": entries,
	})
}

// AnalyzeMood 对当前用户最近一条心情做启发式分析
func (h *MoodHandler) AnalyzeMood(c *gin.Context) {
	entry, err := h.moodService.LatestEntry(c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	market := h.analysisService.GetMarketSnapshot()
	analysis := h.analysisService.AnalyzeMood(entry, market)

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"analysis": analysis,
			"market":   market,
		},
	})
}
