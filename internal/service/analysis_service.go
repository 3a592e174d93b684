package service

import (
	"cryptomood-backend/internal/model"
	"math"
	"math/rand"
)

// AnalysisService 提供模拟行情快照和启发式心情分析
type AnalysisService struct{}

func NewAnalysisService() *AnalysisService {
	return &AnalysisService{}
}

var bullishEmotions = map[string]bool{
	"Diamond Hands": true,
	"Optimistic":    true,
	"Bullish":       true,
	"Excited":       true,
	"Confident":     true,
}

var bearishEmotions = map[string]bool{
	"Paper Hands": true,
	"FUD":         true,
	"Bearish":     true,
	"Anxious":     true,
	"Uncertain":   true,
}

// GetMarketSnapshot 返回模拟的行情快照
// TODO: 接入 CoinGecko 等真实行情源后替换掉这里的随机数据
func (s *AnalysisService) GetMarketSnapshot() *model.MarketSnapshot {
	btcPrice := 42000 + rand.Float64()*5000
	solPrice := 80 + rand.Float64()*20
	fearGreed := rand.Intn(100)

	return &model.MarketSnapshot{
		BTCPrice:       math.Round(btcPrice),
		SOLPrice:       math.Round(solPrice*100) / 100,
		FearGreedIndex: fearGreed,
		FearGreedLabel: FearGreedLabel(fearGreed),
	}
}

// FearGreedLabel 恐惧贪婪指数的文字描述
func FearGreedLabel(index int) string {
	switch {
	case index >= 75:
		return "Extreme Greed"
	case index >= 55:
		return "Greed"
	case index >= 45:
		return "Neutral"
	case index >= 25:
		return "Fear"
	default:
		return "Extreme Fear"
	}
}

// AnalyzeMood 对一条心情记录做启发式分析
func (s *AnalysisService) AnalyzeMood(entry *model.MoodEntry, market *model.MarketSnapshot) *model.MoodAnalysis {
	sentiment := model.SentimentNeutral
	confidence := 0.5
	riskLevel := "medium"

	// 心情分本身的倾向
	if entry.MoodScore >= 7 {
		sentiment = model.SentimentBullish
		confidence += 0.2
	} else if entry.MoodScore <= 4 {
		sentiment = model.SentimentBearish
		confidence += 0.2
	}

	// 情绪词的多数倾向可以覆盖心情分
	bullishCount, bearishCount := 0, 0
	for _, emotion := range entry.Emotions {
		if bullishEmotions[emotion] {
			bullishCount++
		}
		if bearishEmotions[emotion] {
			bearishCount++
		}
	}
	if bullishCount > bearishCount {
		sentiment = model.SentimentBullish
		confidence += 0.15
	} else if bearishCount > bullishCount {
		sentiment = model.SentimentBearish
		confidence += 0.15
	}

	// 极端的恐惧贪婪指数都意味着高风险
	fearGreed := market.FearGreedIndex
	if fearGreed > 70 || fearGreed < 30 {
		riskLevel = "high"
		confidence += 0.1
	} else {
		riskLevel = "low"
	}

	marketAlignment := 0.5
	if sentiment == model.SentimentBullish && fearGreed > 50 {
		marketAlignment = 0.8
	}
	if sentiment == model.SentimentBearish && fearGreed < 50 {
		marketAlignment = 0.8
	}

	suggestedEmotions := []string{"Cautious", "Analytical", "Patient"}
	if sentiment == model.SentimentBullish {
		suggestedEmotions = []string{"Optimistic", "Confident", "Diamond Hands"}
	}

	var recommendation string
	switch {
	case sentiment == model.SentimentBullish && riskLevel == "low":
		recommendation = "Your mood aligns well with market conditions. Consider gradual position building."
	case sentiment == model.SentimentBearish && riskLevel == "high":
		recommendation = "Your caution matches market volatility. Consider risk management strategies."
	default:
		recommendation = "Mixed signals detected. Consider waiting for clearer market direction."
	}

	return &model.MoodAnalysis{
		Sentiment:         sentiment,
		Confidence:        math.Min(confidence, 1),
		SuggestedEmotions: suggestedEmotions,
		MarketAlignment:   marketAlignment,
		RiskLevel:         riskLevel,
		Recommendation:    recommendation,
	}
}
