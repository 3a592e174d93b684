package service

import (
	"cryptomood-backend/internal/errors"
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/repository/interfaces"
	"math"
	"time"
)

// StatsService 计算单个用户的日记/预测统计
type StatsService struct {
	moodRepo       interfaces.MoodRepository
	predictionRepo interfaces.PredictionRepository
}

func NewStatsService(moodRepo interfaces.MoodRepository, predictionRepo interfaces.PredictionRepository) *StatsService {
	return &StatsService{
		moodRepo:       moodRepo,
		predictionRepo: predictionRepo,
	}
}

// GetUserStats 返回用户的统计快照
func (s *StatsService) GetUserStats(userID int) (*model.UserStats, error) {
	totalMoods, err := s.moodRepo.CountByUser(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计心情记录失败", err)
	}

	totalPredictions, err := s.predictionRepo.CountByUser(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计预测失败", err)
	}

	resolved, err := s.predictionRepo.ListResolvedByUser(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取已结算预测失败", err)
	}

	recentMoods, err := s.moodRepo.ListByUser(userID, moodHistoryLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取心情记录失败", err)
	}

	return &model.UserStats{
		TotalMoods:       totalMoods,
		TotalPredictions: totalPredictions,
		AccuracyScore:    accuracyScore(resolved),
		StreakDays:       streakDays(recentMoods, time.Now()),
	}, nil
}

// accuracyScore 已结算预测中判断正确的比例，取整百分数
func accuracyScore(resolved []*model.Prediction) int {
	if len(resolved) == 0 {
		return 0
	}
	correct := 0
	for _, p := range resolved {
		if p.Status == model.PredictionCorrect {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(resolved)) * 100))
}

// streakDays 以今天为起点的连续打卡天数，entries 按时间倒序
func streakDays(entries []*model.MoodEntry, now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	streak := 0
	for i, entry := range entries {
		entryDay := entry.CreatedAt.In(now.Location())
		entryDay = time.Date(entryDay.Year(), entryDay.Month(), entryDay.Day(), 0, 0, 0, 0, now.Location())

		expected := today.AddDate(0, 0, -i)
		if !entryDay.Equal(expected) {
			break
		}
		streak++
	}
	return streak
}
