package model

import "time"

// 预测状态
const (
	PredictionPending   = "pending"
	PredictionCorrect   = "correct"
	PredictionIncorrect = "incorrect"
)

// Prediction 市场预测记录
type Prediction struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Symbol      string     `json:"symbol"`
	Direction   string     `json:"direction"`
	Confidence  int        `json:"confidence"`
	TargetPrice *float64   `json:"target_price,omitempty"`
	Timeframe   string     `json:"timeframe"`
	Reasoning   string     `json:"reasoning"`
	Status      string     `json:"status"`
	ActualPrice *float64   `json:"actual_price,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserStats 个人统计：心情/预测数量、预测准确率、连续打卡天数
type UserStats struct {
	TotalMoods       int `json:"total_moods"`
	TotalPredictions int `json:"total_predictions"`
	AccuracyScore    int `json:"accuracy_score"`
	StreakDays       int `json:"streak_days"`
}
