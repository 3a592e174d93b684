package service

import (
	"cryptomood-backend/internal/errors"
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/repository/interfaces"
	"strings"
	"time"
)

const predictionHistoryLimit = 50

var validTimeframes = map[string]bool{
	"1h": true, "4h": true, "1d": true, "1w": true, "1m": true,
}

type PredictionService struct {
	repo interfaces.PredictionRepository
}

func NewPredictionService(repo interfaces.PredictionRepository) *PredictionService {
	return &PredictionService{repo}
}

// Create 校验并创建一条预测
func (s *PredictionService) Create(prediction *model.Prediction) error {
	prediction.Symbol = strings.ToUpper(strings.TrimSpace(prediction.Symbol))
	if prediction.Symbol == "" {
		return errors.New(errors.ErrValidation, "Symbol is required")
	}
	if prediction.Direction != "up" && prediction.Direction != "down" {
		return errors.New(errors.ErrValidation, `Direction must be either "up" or "down"`)
	}
	if prediction.Confidence < 1 || prediction.Confidence > 10 {
		return errors.New(errors.ErrValidation, "Confidence must be between 1 and 10")
	}
	if prediction.TargetPrice != nil && *prediction.TargetPrice <= 0 {
		return errors.New(errors.ErrValidation, "Target price must be a positive number")
	}
	if !validTimeframes[prediction.Timeframe] {
		return errors.New(errors.ErrValidation, "Invalid timeframe")
	}
	prediction.Reasoning = strings.TrimSpace(prediction.Reasoning)
	if prediction.Reasoning == "" {
		return errors.New(errors.ErrValidation, "Reasoning is required")
	}

	if err := s.repo.Create(prediction); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建预测失败", err)
	}
	return nil
}

// List 获取用户最近的预测，最新的在前
func (s *PredictionService) List(userID int) ([]*model.Prediction, error) {
	predictions, err := s.repo.ListByUser(userID, predictionHistoryLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取预测列表失败", err)
	}
	if predictions == nil {
		predictions = []*model.Prediction{}
	}
	return predictions, nil
}

// Get 获取用户自己的一条预测
func (s *PredictionService) Get(id, userID int) (*model.Prediction, error) {
	prediction, err := s.repo.FindByIDAndUser(id, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取预测失败", err)
	}
	if prediction == nil {
		return nil, errors.New(errors.ErrPredictionNotFound, "Prediction not found")
	}
	return prediction, nil
}

// Delete 删除用户自己的一条预测
func (s *PredictionService) Delete(id, userID int) error {
	deleted, err := s.repo.DeleteByIDAndUser(id, userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除预测失败", err)
	}
	if !deleted {
		return errors.New(errors.ErrPredictionNotFound, "Prediction not found")
	}
	return nil
}

// Resolve 结算一条 pending 预测：记录实际价格并标记正误
func (s *PredictionService) Resolve(id, userID int, actualPrice float64, isCorrect bool) (*model.Prediction, error) {
	if actualPrice <= 0 {
		return nil, errors.New(errors.ErrValidation, "Actual price must be a positive number")
	}

	status := model.PredictionIncorrect
	if isCorrect {
		status = model.PredictionCorrect
	}

	resolved, err := s.repo.Resolve(id, userID, actualPrice, status, time.Now())
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "结算预测失败", err)
	}
	if !resolved {
		// 不存在、不属于该用户、或早已结算
		return nil, errors.New(errors.ErrPredictionNotFound, "Pending prediction not found")
	}

	return s.Get(id, userID)
}
