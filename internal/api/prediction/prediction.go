package prediction

import (
	"cryptomood-backend/internal/errors"
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PredictionHandler struct {
	predictionService *service.PredictionService
}

func NewPredictionHandler(predictionService *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService}
}

type createPredictionRequest struct {
	Symbol      string   `json:"symbol" binding:"required,cryptosymbol"`
	Direction   string   `json:"direction" binding:"required,oneof=up down"`
	Confidence  int      `json:"confidence" binding:"required,min=1,max=10"`
	TargetPrice *float64 `json:"target_price"`
	Timeframe   string   `json:"timeframe" binding:"required,oneof=1h 4h 1d 1w 1m"`
	Reasoning   string   `json:"reasoning" binding:"required"`
}

// CreatePrediction 创建一条市场预测
func (h *PredictionHandler) CreatePrediction(c *gin.Context) {
	var req createPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	prediction := &model.Prediction{
		UserID:      c.GetInt("user_id"),
		Symbol:      req.Symbol,
		Direction:   req.Direction,
		Confidence:  req.Confidence,
		TargetPrice: req.TargetPrice,
		Timeframe:   req.Timeframe,
		Reasoning:   req.Reasoning,
	}

	if err := h.predictionService.Create(prediction); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code": 201,
		"data": prediction,
	})
}

// ListPredictions 获取当前用户的预测列表
func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	predictions, err := h.predictionService.List(c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": predictions,
	})
}

// GetPrediction 获取当前用户的一条预测
func (h *PredictionHandler) GetPrediction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的预测ID"))
		return
	}

	prediction, err := h.predictionService.Get(id, c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": prediction,
	})
}

// DeletePrediction 删除当前用户的一条预测
func (h *PredictionHandler) DeletePrediction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的预测ID"))
		return
	}

	if err := h.predictionService.Delete(id, c.GetInt("user_id")); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "Prediction deleted successfully")
}

type resolvePredictionRequest struct {
	PredictionID int     `json:"prediction_id" binding:"required"`
	ActualPrice  float64 `json:"actual_price" binding:"required,gt=0"`
	IsCorrect    *bool   `json:"is_correct" binding:"required"`
}

// ResolvePrediction 结算一条 pending 预测
func (h *PredictionHandler) ResolvePrediction(c *gin.Context) {
	var req resolvePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	prediction, err := h.predictionService.Resolve(
		req.PredictionID, c.GetInt("user_id"), req.ActualPrice, *req.IsCorrect)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": prediction,
	})
}
