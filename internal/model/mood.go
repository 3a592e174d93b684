package model

import "time"

// 心情记录的市场状态取值，比帖子情绪多一个 volatile
const (
	MarketConditionBullish  = "bullish"
	MarketConditionBearish  = "bearish"
	MarketConditionNeutral  = "neutral"
	MarketConditionVolatile = "volatile"
)

// MoodEntry 个人心情日记条目
type MoodEntry struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	MoodScore       int       `json:"mood_score"`
	Emotions        []string  `json:"emotions"`
	MarketCondition string    `json:"market_condition"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MoodAnalysis 基于最近心情与市场快照的启发式分析结果
type MoodAnalysis struct {
	Sentiment         string   `json:"sentiment"`
	Confidence        float64  `json:"confidence"`
	SuggestedEmotions []string `json:"suggested_emotions"`
	MarketAlignment   float64  `json:"market_alignment"`
	RiskLevel         string   `json:"risk_level"`
	Recommendation    string   `json:"recommendation"`
}

// MarketSnapshot 模拟的市场行情快照
type MarketSnapshot struct {
	BTCPrice       float64 `json:"btc_price"`
	SOLPrice       float64 `json:"sol_price"`
	FearGreedIndex int     `json:"fear_greed_index"`
	FearGreedLabel string  `json:"fear_greed_label"`
}
