package service

import (
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/util"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	util.InitLogger("error")
	os.Exit(m.Run())
}

// MockCommunityRepository 是 CommunityRepository 接口的模拟实现
type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) CreatePost(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockCommunityRepository) GetPostByID(id int) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockCommunityRepository) ListPublicPosts(filter model.FeedFilter, page, limit int) ([]*model.Post, int, error) {
	args := m.Called(filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Post), args.Int(1), args.Error(2)
}

func (m *MockCommunityRepository) AddLike(userID, postID int) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockCommunityRepository) RemoveLike(userID, postID int) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockCommunityRepository) IsPostLikedByUser(postID, userID int) (bool, error) {
	args := m.Called(postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommunityRepository) GetLikeCount(postID int) (int, error) {
	args := m.Called(postID)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) GetPostLikers(postID int) ([]int, error) {
	args := m.Called(postID)
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockCommunityRepository) CreateComment(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommunityRepository) GetCommentsByPostID(postID int) ([]*model.Comment, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockCommunityRepository) GetCommentCount(postID int) (int, error) {
	args := m.Called(postID)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) CountPublicPosts() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) CountPublicPostsSince(t time.Time) (int, error) {
	args := m.Called(t)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) TotalLikes() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) TotalComments() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) AvgMood() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockCommunityRepository) SentimentCounts() (map[string]int, error) {
	args := m.Called()
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockCommunityRepository) TrendingTags(limit int) ([]*model.TagCount, error) {
	args := m.Called(limit)
	return args.Get(0).([]*model.TagCount), args.Error(1)
}

func (m *MockCommunityRepository) TrendingSymbols(limit int) ([]*model.SymbolStat, error) {
	args := m.Called(limit)
	return args.Get(0).([]*model.SymbolStat), args.Error(1)
}

// TestCreatePost 测试帖子创建及其校验规则
func TestCreatePost(t *testing.T) {
	mockRepo := new(MockCommunityRepository)
	service := NewCommunityService(mockRepo)

	mockRepo.On("CreatePost", mock.AnythingOfType("*model.Post")).Return(nil)

	post := &model.Post{
		UserID:          1,
		Content:         "  BTC is looking strong today  ",
		Mood:            8,
		MarketSentiment: model.SentimentBullish,
		CryptoSymbol:    " btc ",
	}
	err := service.CreatePost(post, "BTC, Bullish, btc, moon")
	assert.NoError(t, err)
	assert.Equal(t, "BTC is looking strong today", post.Content)
	assert.Equal(t, "BTC", post.CryptoSymbol)
	assert.Equal(t, []string{"btc", "bullish", "moon"}, post.Tags)
	assert.True(t, post.IsPublic)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)
	mockRepo.AssertExpectations(t)

	// 内容为空
	err = service.CreatePost(&model.Post{Content: "   ", Mood: 5, MarketSentiment: model.SentimentNeutral}, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Content must be between 1 and 500 characters")

	// 内容超长
	err = service.CreatePost(&model.Post{Content: strings.Repeat("a", 501), Mood: 5, MarketSentiment: model.SentimentNeutral}, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Content must be between 1 and 500 characters")

	// 心情分越界
	err = service.CreatePost(&model.Post{Content: "ok", Mood: 0, MarketSentiment: model.SentimentNeutral}, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Mood must be between 1 and 10")

	err = service.CreatePost(&model.Post{Content: "ok", Mood: 11, MarketSentiment: model.SentimentNeutral}, "")
	assert.Error(t, err)

	// 非法情绪值
	err = service.CreatePost(&model.Post{Content: "ok", Mood: 5, MarketSentiment: "euphoric"}, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid market sentiment")
}

// TestNormalizeTags 测试标签解析规则
func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"空输入", "", []string{}},
		{"大小写和空白", " BTC , eth ", []string{"btc", "eth"}},
		{"去重", "btc,BTC, Btc ,eth", []string{"btc", "eth"}},
		{"忽略空标签", "btc,, ,eth", []string{"btc", "eth"}},
		{"最多保留五个", "a,b,c,d,e,f,g", []string{"a", "b", "c", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTags(tt.input))
		})
	}
}

// TestGetFeedPagination 测试分页元数据计算
func TestGetFeedPagination(t *testing.T) {
	mockRepo := new(MockCommunityRepository)
	service := NewCommunityService(mockRepo)

	mockRepo.On("ListPublicPosts", model.FeedFilter{}, 2, 20).Return([]*model.Post{}, 45, nil)

	_, pagination, err := service.GetFeed(model.FeedFilter{}, 2, 20)
	assert.NoError(t, err)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 45, pagination.TotalPosts)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)

	// 非法页码回退到第一页
	mockRepo.On("ListPublicPosts", model.FeedFilter{}, 1, 20).Return([]*model.Post{}, 45, nil)
	_, pagination, err = service.GetFeed(model.FeedFilter{}, 0, 20)
	assert.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.False(t, pagination.HasPrev)
	mockRepo.AssertExpectations(t)
}

// TestToggleLike 测试点赞开关
func TestToggleLike(t *testing.T) {
	mockRepo := new(MockCommunityRepository)
	service := NewCommunityService(mockRepo)

	post := &model.Post{ID: 10, Content: "gm"}
	mockRepo.On("GetPostByID", 10).Return(post, nil)

	// 尚未点赞，切换为点赞
	mockRepo.On("IsPostLikedByUser", 10, 1).Return(false, nil).Once()
	mockRepo.On("AddLike", 1, 10).Return(nil).Once()
	mockRepo.On("GetLikeCount", 10).Return(1, nil).Once()

	isLiked, count, err := service.ToggleLike(10, 1)
	assert.NoError(t, err)
	assert.True(t, isLiked)
	assert.Equal(t, 1, count)

	// 再次切换，取消点赞
	mockRepo.On("IsPostLikedByUser", 10, 1).Return(true, nil).Once()
	mockRepo.On("RemoveLike", 1, 10).Return(nil).Once()
	mockRepo.On("GetLikeCount", 10).Return(0, nil).Once()

	isLiked, count, err = service.ToggleLike(10, 1)
	assert.NoError(t, err)
	assert.False(t, isLiked)
	assert.Equal(t, 0, count)
	mockRepo.AssertExpectations(t)

	// 帖子不存在
	mockRepo.On("GetPostByID", 999).Return(nil, nil)
	_, _, err = service.ToggleLike(999, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Post not found")
}

// TestAddComment 测试评论创建及其校验规则
func TestAddComment(t *testing.T) {
	mockRepo := new(MockCommunityRepository)
	service := NewCommunityService(mockRepo)

	post := &model.Post{ID: 10, Content: "gm"}
	mockRepo.On("GetPostByID", 10).Return(post, nil)
	mockRepo.On("CreateComment", mock.AnythingOfType("*model.Comment")).Return(nil)

	comment, err := service.AddComment(10, 2, "trader2", "  nice call  ")
	assert.NoError(t, err)
	assert.Equal(t, "nice call", comment.Content)
	assert.Equal(t, 10, comment.PostID)
	assert.Equal(t, "trader2", comment.Username)

	// 正好 200 个字符可以通过
	_, err = service.AddComment(10, 2, "trader2", strings.Repeat("a", 200))
	assert.NoError(t, err)

	// 超过 200 个字符被拒绝
	_, err = service.AddComment(10, 2, "trader2", strings.Repeat("a", 201))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Comment must be 200 characters or less")

	// 空评论被拒绝
	_, err = service.AddComment(10, 2, "trader2", "   ")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Comment content is required")
}

// TestGetCommunityStats 测试社区统计的聚合逻辑
func TestGetCommunityStats(t *testing.T) {
	mockRepo := new(MockCommunityRepository)
	service := NewCommunityService(mockRepo)

	mockRepo.On("CountPublicPosts").Return(4, nil)
	mockRepo.On("TotalLikes").Return(9, nil)
	mockRepo.On("TotalComments").Return(3, nil)
	// 心情分 4、6、8、10 的平均值
	mockRepo.On("AvgMood").Return(7.0, nil)
	mockRepo.On("SentimentCounts").Return(map[string]int{model.SentimentBullish: 3}, nil)
	mockRepo.On("TrendingTags", 10).Return([]*model.TagCount{{Tag: "btc", Count: 2}}, nil)
	mockRepo.On("TrendingSymbols", 10).Return([]*model.SymbolStat{{Symbol: "BTC", Count: 2, AvgMood: 7.5}}, nil)
	mockRepo.On("CountPublicPostsSince", mock.AnythingOfType("time.Time")).Return(2, nil)

	stats, err := service.GetCommunityStats()
	assert.NoError(t, err)
	assert.Equal(t, 4, stats.TotalPosts)
	assert.Equal(t, 9, stats.TotalLikes)
	assert.Equal(t, 3, stats.TotalComments)
	assert.Equal(t, 7.0, stats.AvgMood)
	// 三种情绪的键都必须存在
	assert.Equal(t, 3, stats.Sentiment[model.SentimentBullish])
	assert.Equal(t, 0, stats.Sentiment[model.SentimentBearish])
	assert.Equal(t, 0, stats.Sentiment[model.SentimentNeutral])
	assert.Equal(t, 2, stats.RecentActivity)
	mockRepo.AssertExpectations(t)
}

// TestGetCommunityStatsEmpty 没有帖子时平均心情为 0，不触发除零
func TestGetCommunityStatsEmpty(t *testing.T) {
	mockRepo := new(MockCommunityRepository)
	service := NewCommunityService(mockRepo)

	mockRepo.On("CountPublicPosts").Return(0, nil)
	mockRepo.On("TotalLikes").Return(0, nil)
	mockRepo.On("TotalComments").Return(0, nil)
	mockRepo.On("SentimentCounts").Return(map[string]int{}, nil)
	mockRepo.On("TrendingTags", 10).Return([]*model.TagCount{}, nil)
	mockRepo.On("TrendingSymbols", 10).Return([]*model.SymbolStat{}, nil)
	mockRepo.On("CountPublicPostsSince", mock.AnythingOfType("time.Time")).Return(0, nil)

	stats, err := service.GetCommunityStats()
	assert.NoError(t, err)
	assert.Equal(t, 0.0, stats.AvgMood)
	mockRepo.AssertNotCalled(t, "AvgMood")
}

// fakeCommunityRepo 是一个带状态的内存实现，用于多步交互场景
type fakeCommunityRepo struct {
	nextID    int
	posts     map[int]*model.Post
	likes     map[int]map[int]bool
	comments  map[int][]*model.Comment
	commentID int
}

func newFakeCommunityRepo() *fakeCommunityRepo {
	return &fakeCommunityRepo{
		nextID:   1,
		posts:    make(map[int]*model.Post),
		likes:    make(map[int]map[int]bool),
		comments: make(map[int][]*model.Comment),
	}
}

func (f *fakeCommunityRepo) CreatePost(post *model.Post) error {
	post.ID = f.nextID
	f.nextID++
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	f.posts[post.ID] = post
	f.likes[post.ID] = make(map[int]bool)
	return nil
}

func (f *fakeCommunityRepo) snapshot(post *model.Post) *model.Post {
	copied := *post
	copied.Likes = []int{}
	for userID := range f.likes[post.ID] {
		copied.Likes = append(copied.Likes, userID)
	}
	sort.Ints(copied.Likes)
	copied.Comments = append([]*model.Comment{}, f.comments[post.ID]...)
	copied.LikeCount = len(copied.Likes)
	copied.CommentCount = len(copied.Comments)
	return &copied
}

func (f *fakeCommunityRepo) GetPostByID(id int) (*model.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	return f.snapshot(post), nil
}

func (f *fakeCommunityRepo) ListPublicPosts(filter model.FeedFilter, page, limit int) ([]*model.Post, int, error) {
	ids := []int{}
	for id, post := range f.posts {
		if post.IsPublic {
			ids = append(ids, id)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	posts := []*model.Post{}
	start := (page - 1) * limit
	for i := start; i < len(ids) && i < start+limit; i++ {
		posts = append(posts, f.snapshot(f.posts[ids[i]]))
	}
	return posts, len(ids), nil
}

func (f *fakeCommunityRepo) AddLike(userID, postID int) error {
	f.likes[postID][userID] = true
	return nil
}

func (f *fakeCommunityRepo) RemoveLike(userID, postID int) error {
	delete(f.likes[postID], userID)
	return nil
}

func (f *fakeCommunityRepo) IsPostLikedByUser(postID, userID int) (bool, error) {
	return f.likes[postID][userID], nil
}

func (f *fakeCommunityRepo) GetLikeCount(postID int) (int, error) {
	return len(f.likes[postID]), nil
}

func (f *fakeCommunityRepo) GetPostLikers(postID int) ([]int, error) {
	likers := []int{}
	for userID := range f.likes[postID] {
		likers = append(likers, userID)
	}
	sort.Ints(likers)
	return likers, nil
}

func (f *fakeCommunityRepo) CreateComment(comment *model.Comment) error {
	f.commentID++
	comment.ID = f.commentID
	comment.CreatedAt = time.Now()
	// 最新的在前
	f.comments[comment.PostID] = append([]*model.Comment{comment}, f.comments[comment.PostID]...)
	return nil
}

func (f *fakeCommunityRepo) GetCommentsByPostID(postID int) ([]*model.Comment, error) {
	return append([]*model.Comment{}, f.comments[postID]...), nil
}

func (f *fakeCommunityRepo) GetCommentCount(postID int) (int, error) {
	return len(f.comments[postID]), nil
}

func (f *fakeCommunityRepo) CountPublicPosts() (int, error) {
	count := 0
	for _, post := range f.posts {
		if post.IsPublic {
			count++
		}
	}
	return count, nil
}

func (f *fakeCommunityRepo) CountPublicPostsSince(t time.Time) (int, error) {
	count := 0
	for _, post := range f.posts {
		if post.IsPublic && post.CreatedAt.After(t) {
			count++
		}
	}
	return count, nil
}

func (f *fakeCommunityRepo) TotalLikes() (int, error) {
	total := 0
	for _, likers := range f.likes {
		total += len(likers)
	}
	return total, nil
}

func (f *fakeCommunityRepo) TotalComments() (int, error) {
	total := 0
	for _, comments := range f.comments {
		total += len(comments)
	}
	return total, nil
}

func (f *fakeCommunityRepo) AvgMood() (float64, error) {
	sum, count := 0, 0
	for _, post := range f.posts {
		if post.IsPublic {
			sum += post.Mood
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

func (f *fakeCommunityRepo) SentimentCounts() (map[string]int, error) {
	counts := map[string]int{}
	for _, post := range f.posts {
		if post.IsPublic {
			counts[post.MarketSentiment]++
		}
	}
	return counts, nil
}

func (f *fakeCommunityRepo) TrendingTags(limit int) ([]*model.TagCount, error) {
	return []*model.TagCount{}, nil
}

func (f *fakeCommunityRepo) TrendingSymbols(limit int) ([]*model.SymbolStat, error) {
	return []*model.SymbolStat{}, nil
}

// TestCommunityScenario 模拟完整的社区交互流程：
// 发帖、两次点赞切换、他人评论，最后检查列表中的计数
func TestCommunityScenario(t *testing.T) {
	repo := newFakeCommunityRepo()
	service := NewCommunityService(repo)

	post := &model.Post{
		UserID:          1,
		Username:        "alice",
		Content:         "Feeling bullish on SOL",
		Mood:            8,
		MarketSentiment: model.SentimentBullish,
		CryptoSymbol:    "sol",
	}
	err := service.CreatePost(post, "sol,defi")
	assert.NoError(t, err)
	assert.NotZero(t, post.ID)

	// 用户 2 点赞
	isLiked, count, err := service.ToggleLike(post.ID, 2)
	assert.NoError(t, err)
	assert.True(t, isLiked)
	assert.Equal(t, 1, count)

	// 用户 2 再次点击，取消点赞
	isLiked, count, err = service.ToggleLike(post.ID, 2)
	assert.NoError(t, err)
	assert.False(t, isLiked)
	assert.Equal(t, 0, count)

	// 用户 3 点赞并评论
	_, _, err = service.ToggleLike(post.ID, 3)
	assert.NoError(t, err)
	_, err = service.AddComment(post.ID, 3, "bob", "same here")
	assert.NoError(t, err)

	// 列表中的帖子带有正确的计数和点赞状态
	posts, pagination, err := service.GetFeed(model.FeedFilter{}, 1, 20)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 1, pagination.TotalPosts)
	assert.Equal(t, 1, posts[0].LikeCount)
	assert.Equal(t, 1, posts[0].CommentCount)
	assert.Equal(t, []int{3}, posts[0].Likes)

	service.MarkLikedBy(posts, 3)
	assert.True(t, posts[0].IsLiked)

	service.MarkLikedBy(posts, 2)
	// 用户 2 已取消点赞，状态保持不变
	assert.True(t, posts[0].IsLiked)

	// 评论列表最新的在前
	_, err = service.AddComment(post.ID, 2, "carol", "second comment")
	assert.NoError(t, err)
	comments, err := service.GetComments(post.ID)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "second comment", comments[0].Content)
	assert.Equal(t, "same here", comments[1].Content)
}
