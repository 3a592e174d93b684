package service

import (
	"cryptomood-backend/internal/errors"
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/repository/interfaces"
	"cryptomood-backend/internal/util"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxPostContentLen    = 500
	maxCommentContentLen = 200
	maxTagsPerPost       = 5
	trendingLimit        = 10
	defaultFeedLimit     = 20
)

type CommunityService struct {
	repo interfaces.CommunityRepository
}

func NewCommunityService(repo interfaces.CommunityRepository) *CommunityService {
	return &CommunityService{repo}
}

// CreatePost 校验并创建一条新帖子，rawTags 为逗号分隔的标签输入
func (s *CommunityService) CreatePost(post *model.Post, rawTags string) error {
	post.Content = strings.TrimSpace(post.Content)
	if len(post.Content) == 0 || len(post.Content) > maxPostContentLen {
		return errors.New(errors.ErrValidation, "Content must be between 1 and 500 characters")
	}
	if post.Mood < 1 || post.Mood > 10 {
		return errors.New(errors.ErrValidation, "Mood must be between 1 and 10")
	}
	if !model.IsValidSentiment(post.MarketSentiment) {
		return errors.New(errors.ErrValidation, "Invalid market sentiment")
	}

	post.CryptoSymbol = strings.ToUpper(strings.TrimSpace(post.CryptoSymbol))
	post.Tags = NormalizeTags(rawTags)

	// 新帖子没有任何互动，默认公开
	post.Likes = []int{}
	post.Comments = []*model.Comment{}
	post.IsPublic = true

	return s.repo.CreatePost(post)
}

// NormalizeTags 把逗号分隔的输入解析为去重后的小写标签集合，至多保留 5 个
func NormalizeTags(rawTags string) []string {
	tags := []string{}
	if rawTags == "" {
		return tags
	}

	seen := map[string]bool{}
	for _, tag := range strings.Split(rawTags, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == maxTagsPerPost {
			break
		}
	}
	return tags
}

// GetFeed 分页获取公开帖子，最新的在前
func (s *CommunityService) GetFeed(filter model.FeedFilter, page, limit int) ([]*model.Post, *model.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultFeedLimit
	}

	posts, total, err := s.repo.ListPublicPosts(filter, page, limit)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "获取帖子列表失败", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	totalPages := (total + limit - 1) / limit
	pagination := &model.Pagination{
		Page:       page,
		Limit:      limit,
		TotalPosts: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
	return posts, pagination, nil
}

// MarkLikedBy 填充帖子相对某个用户的点赞状态
func (s *CommunityService) MarkLikedBy(posts []*model.Post, userID int) {
	for _, post := range posts {
		for _, liker := range post.Likes {
			if liker == userID {
				post.IsLiked = true
				break
			}
		}
	}
}

func (s *CommunityService) GetPostByID(id int) (*model.Post, error) {
	post, err := s.repo.GetPostByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found")
	}
	return post, nil
}

// ToggleLike 点赞开关：已点赞则取消，未点赞则添加
func (s *CommunityService) ToggleLike(postID, userID int) (bool, int, error) {
	if _, err := s.GetPostByID(postID); err != nil {
		return false, 0, err
	}

	isLiked, err := s.repo.IsPostLikedByUser(postID, userID)
	if err != nil {
		return false, 0, errors.Wrap(errors.ErrDatabase, "检查点赞状态失败", err)
	}

	if isLiked {
		err = s.repo.RemoveLike(userID, postID)
	} else {
		err = s.repo.AddLike(userID, postID)
	}
	if err != nil {
		return false, 0, errors.Wrap(errors.ErrDatabase, "更新点赞状态失败", err)
	}

	likeCount, err := s.repo.GetLikeCount(postID)
	if err != nil {
		return false, 0, errors.Wrap(errors.ErrDatabase, "获取点赞数失败", err)
	}

	util.Logger.Info("点赞状态已切换",
		zap.Int("post_id", postID),
		zap.Int("user_id", userID),
		zap.Bool("is_liked", !isLiked))
	return !isLiked, likeCount, nil
}

// AddComment 向帖子追加一条评论，已有评论不会被修改
func (s *CommunityService) AddComment(postID, userID int, username, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New(errors.ErrValidation, "Comment content is required")
	}
	if len(content) > maxCommentContentLen {
		return nil, errors.New(errors.ErrValidation, "Comment must be 200 characters or less")
	}

	if _, err := s.GetPostByID(postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		UserID:   userID,
		Username: username,
		Content:  content,
	}
	if err := s.repo.CreateComment(comment); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建评论失败", err)
	}
	return comment, nil
}

// GetComments 获取帖子的评论列表，最新的在前
func (s *CommunityService) GetComments(postID int) ([]*model.Comment, error) {
	if _, err := s.GetPostByID(postID); err != nil {
		return nil, err
	}

	comments, err := s.repo.GetCommentsByPostID(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取评论列表失败", err)
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	return comments, nil
}

// GetCommunityStats 计算社区统计快照，每次调用实时重算
func (s *CommunityService) GetCommunityStats() (*model.CommunityStats, error) {
	totalPosts, err := s.repo.CountPublicPosts()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计帖子总数失败", err)
	}

	totalLikes, err := s.repo.TotalLikes()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计点赞总数失败", err)
	}

	totalComments, err := s.repo.TotalComments()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计评论总数失败", err)
	}

	avgMood := 0.0
	if totalPosts > 0 {
		avgMood, err = s.repo.AvgMood()
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "计算平均心情失败", err)
		}
		avgMood = math.Round(avgMood*10) / 10
	}

	sentimentCounts, err := s.repo.SentimentCounts()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计情绪分布失败", err)
	}
	sentiment := map[string]int{
		model.SentimentBullish: sentimentCounts[model.SentimentBullish],
		model.SentimentBearish: sentimentCounts[model.SentimentBearish],
		model.SentimentNeutral: sentimentCounts[model.SentimentNeutral],
	}

	trendingTags, err := s.repo.TrendingTags(trendingLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计热门标签失败", err)
	}

	trendingSymbols, err := s.repo.TrendingSymbols(trendingLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计热门币种失败", err)
	}

	recentActivity, err := s.repo.CountPublicPostsSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计近期活跃失败", err)
	}

	return &model.CommunityStats{
		TotalPosts:      totalPosts,
		TotalLikes:      totalLikes,
		TotalComments:   totalComments,
		AvgMood:         avgMood,
		Sentiment:       sentiment,
		TrendingTags:    trendingTags,
		TrendingSymbols: trendingSymbols,
		RecentActivity:  recentActivity,
	}, nil
}
