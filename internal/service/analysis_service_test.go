package service

import (
	"cryptomood-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFearGreedLabel 测试恐惧贪婪指数的分档
func TestFearGreedLabel(t *testing.T) {
	tests := []struct {
		index    int
		expected string
	}{
		{90, "Extreme Greed"},
		{75, "Extreme Greed"},
		{60, "Greed"},
		{50, "Neutral"},
		{30, "Fear"},
		{24, "Extreme Fear"},
		{0, "Extreme Fear"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FearGreedLabel(tt.index))
	}
}

// TestAnalyzeMood 测试心情分析的启发式规则
func TestAnalyzeMood(t *testing.T) {
	service := NewAnalysisService()

	// 高心情分 + 看多情绪 + 贪婪市场
	entry := &model.MoodEntry{
		MoodScore: 8,
		Emotions:  []string{"Optimistic", "Diamond Hands"},
	}
	market := &model.MarketSnapshot{FearGreedIndex: 80}

	analysis := service.AnalyzeMood(entry, market)
	assert.Equal(t, model.SentimentBullish, analysis.Sentiment)
	// 0.5 + 0.2 + 0.15 + 0.1 = 0.95
	assert.InDelta(t, 0.95, analysis.Confidence, 1e-9)
	assert.Equal(t, "high", analysis.RiskLevel)
	assert.Equal(t, 0.8, analysis.MarketAlignment)
	assert.Equal(t, []string{"Optimistic", "Confident", "Diamond Hands"}, analysis.SuggestedEmotions)
	assert.Contains(t, analysis.Recommendation, "Mixed signals")

	// 低心情分 + 看空情绪 + 恐惧市场
	entry = &model.MoodEntry{
		MoodScore: 3,
		Emotions:  []string{"FUD", "Anxious"},
	}
	market = &model.MarketSnapshot{FearGreedIndex: 20}

	analysis = service.AnalyzeMood(entry, market)
	assert.Equal(t, model.SentimentBearish, analysis.Sentiment)
	assert.Equal(t, "high", analysis.RiskLevel)
	assert.Equal(t, 0.8, analysis.MarketAlignment)
	assert.Contains(t, analysis.Recommendation, "risk management")

	// 中性心情 + 中性市场
	entry = &model.MoodEntry{MoodScore: 5}
	market = &model.MarketSnapshot{FearGreedIndex: 50}

	analysis = service.AnalyzeMood(entry, market)
	assert.Equal(t, model.SentimentNeutral, analysis.Sentiment)
	assert.InDelta(t, 0.5, analysis.Confidence, 1e-9)
	assert.Equal(t, "low", analysis.RiskLevel)
	assert.Equal(t, 0.5, analysis.MarketAlignment)
	assert.Equal(t, []string{"Cautious", "Analytical", "Patient"}, analysis.SuggestedEmotions)

	// 情绪词的多数倾向覆盖心情分
	entry = &model.MoodEntry{
		MoodScore: 8,
		Emotions:  []string{"FUD", "Paper Hands", "Optimistic"},
	}
	market = &model.MarketSnapshot{FearGreedIndex: 40}

	analysis = service.AnalyzeMood(entry, market)
	assert.Equal(t, model.SentimentBearish, analysis.Sentiment)
	assert.Equal(t, 0.8, analysis.MarketAlignment)

	// 置信度封顶为 1
	entry = &model.MoodEntry{
		MoodScore: 9,
		Emotions:  []string{"Bullish", "Excited", "Confident"},
	}
	market = &model.MarketSnapshot{FearGreedIndex: 90}
	analysis = service.AnalyzeMood(entry, market)
	assert.LessOrEqual(t, analysis.Confidence, 1.0)
}

// TestGetMarketSnapshot 测试模拟行情的取值范围
func TestGetMarketSnapshot(t *testing.T) {
	service := NewAnalysisService()

	for i := 0; i < 20; i++ {
		snapshot := service.GetMarketSnapshot()
		assert.GreaterOrEqual(t, snapshot.BTCPrice, 42000.0)
		assert.LessOrEqual(t, snapshot.BTCPrice, 47000.0)
		assert.GreaterOrEqual(t, snapshot.SOLPrice, 80.0)
		assert.LessOrEqual(t, snapshot.SOLPrice, 100.0)
		assert.GreaterOrEqual(t, snapshot.FearGreedIndex, 0)
		assert.Less(t, snapshot.FearGreedIndex, 100)
		assert.Equal(t, FearGreedLabel(snapshot.FearGreedIndex), snapshot.FearGreedLabel)
	}
}
