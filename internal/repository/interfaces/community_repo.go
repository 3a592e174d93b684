package interfaces

import (
	"cryptomood-backend/internal/model"
	"time"
)

// CommunityRepository 定义了社区相关的数据库操作接口
type CommunityRepository interface {
	CreatePost(post *model.Post) error
	GetPostByID(id int) (*model.Post, error)
	ListPublicPosts(filter model.FeedFilter, page, limit int) ([]*model.Post, int, error)

	// 点赞和评论是帖子唯一的两种交互写入
	AddLike(userID, postID int) error
	RemoveLike(userID, postID int) error
	IsPostLikedByUser(postID, userID int) (bool, error)
	GetLikeCount(postID int) (int, error)
	GetPostLikers(postID int) ([]int, error)

	CreateComment(comment *model.Comment) error
	GetCommentsByPostID(postID int) ([]*model.Comment, error)
	GetCommentCount(postID int) (int, error)

	// 统计查询，全部只读
	CountPublicPosts() (int, error)
	CountPublicPostsSince(t time.Time) (int, error)
	TotalLikes() (int, error)
	TotalComments() (int, error)
	AvgMood() (float64, error)
	SentimentCounts() (map[string]int, error)
	TrendingTags(limit int) ([]*model.TagCount, error)
	TrendingSymbols(limit int) ([]*model.SymbolStat, error)
}
