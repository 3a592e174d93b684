package model

import "time"

// 市场情绪的三个固定取值
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// IsValidSentiment 判断是否为合法的市场情绪值
func IsValidSentiment(s string) bool {
	return s == SentimentBullish || s == SentimentBearish || s == SentimentNeutral
}

// Post 社区帖子：自由文本 + 心情分 + 市场情绪
type Post struct {
	ID              int        `json:"id"`
	UserID          int        `json:"user_id"`
	Username        string     `json:"username"`
	Content         string     `json:"content"`
	Mood            int        `json:"mood"`
	MarketSentiment string     `json:"market_sentiment"`
	CryptoSymbol    string     `json:"crypto_symbol,omitempty"`
	Tags            []string   `json:"tags"`
	Likes           []int      `json:"likes"`
	Comments        []*Comment `json:"comments"`
	IsPublic        bool       `json:"is_public"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LikeCount       int        `json:"like_count"`
	CommentCount    int        `json:"comment_count"`
	IsLiked         bool       `json:"is_liked"`
}

// Comment 帖子评论，只能追加，不可修改
type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Like 点赞记录，(user_id, post_id) 唯一
type Like struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedFilter 帖子列表的可选过滤条件
type FeedFilter struct {
	Tag       string
	Symbol    string
	Sentiment string
}

// Pagination 分页元数据
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPosts int  `json:"total_posts"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// TagCount 标签出现频次
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// SymbolStat 按币种分组的统计
type SymbolStat struct {
	Symbol  string  `json:"symbol"`
	Count   int     `json:"count"`
	AvgMood float64 `json:"avg_mood"`
}

// CommunityStats 社区统计快照，按需重新计算，不持久化
type CommunityStats struct {
	TotalPosts      int            `json:"total_posts"`
	TotalLikes      int            `json:"total_likes"`
	TotalComments   int            `json:"total_comments"`
	AvgMood         float64        `json:"avg_mood"`
	Sentiment       map[string]int `json:"sentiment"`
	TrendingTags    []*TagCount    `json:"trending_tags"`
	TrendingSymbols []*SymbolStat  `json:"trending_symbols"`
	RecentActivity  int            `json:"recent_activity"`
}
