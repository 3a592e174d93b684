package stats

import (
	"cryptomood-backend/internal/errors"
	"cryptomood-backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService    *service.StatsService
	analysisService *service.AnalysisService
}

func NewStatsHandler(statsService *service.StatsService, analysisService *service.AnalysisService) *StatsHandler {
	return &StatsHandler{
		statsService:    statsService,
		analysisService: analysisService,
	}
}

// GetUserStats 当前用户的统计快照
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	stats, err := h.statsService.GetUserStats(c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": stats,
	})
}

// GetMarket 模拟行情快照，无需登录
func (h *StatsHandler) GetMarket(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": h.analysisService.GetMarketSnapshot(),
	})
}
